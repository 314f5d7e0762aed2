package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/nutrigate/internal/client/models"
	"github.com/dmitrijs2005/nutrigate/internal/common"
	"github.com/dmitrijs2005/nutrigate/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// refreshTimeout bounds a token refresh, which runs detached from the
// caller's cancellation.
const refreshTimeout = 10 * time.Second

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      rpc.NutrigateClient
	health      healthpb.HealthClient

	mu     sync.Mutex
	tokens models.TokenPair

	// refreshMu serialises refreshes so two expired calls do not both
	// rotate the same refresh token.
	refreshMu sync.Mutex

	onTokens func(models.TokenPair)
}

type Option func(*GRPCClient)

// WithTokensHook registers fn to be called (outside any lock) every time the
// token pair changes: sign-in, refresh, sign-out.
func WithTokensHook(fn func(models.TokenPair)) Option {
	return func(c *GRPCClient) { c.onTokens = fn }
}

func NewGRPCClient(endpointURL string, opts ...Option) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	for _, o := range opts {
		o(c)
	}

	conn, err := grpc.NewClient(endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = rpc.NewNutrigateClient(conn)
	c.health = healthpb.NewHealthClient(conn)
	return c, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func (c *GRPCClient) Tokens() models.TokenPair {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens
}

// SetTokens installs a pair restored from disk. The hook is not called.
func (c *GRPCClient) SetTokens(pair models.TokenPair) {
	c.mu.Lock()
	c.tokens = pair
	c.mu.Unlock()
}

func (c *GRPCClient) updateTokens(pair models.TokenPair) {
	c.SetTokens(pair)
	if c.onTokens != nil {
		c.onTokens(pair)
	}
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}
	return metadata.NewOutgoingContext(ctx, md)
}

func isTokenExpired(err error) bool {
	st, ok := status.FromError(err)
	return ok && st.Code() == codes.Unauthenticated && st.Message() == common.ErrTokenExpired.Error()
}

func (c *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	used := c.Tokens()
	err := invoker(withAccessToken(ctx, used.AccessToken), method, req, reply, cc, opts...)
	if err == nil || method == rpc.FullMethod(rpc.MethodRefreshToken) || !isTokenExpired(err) {
		return err
	}

	fresh, rerr := c.refresh(ctx, used)
	if rerr != nil {
		return rerr
	}
	return invoker(withAccessToken(ctx, fresh.AccessToken), method, req, reply, cc, opts...)
}

// refresh exchanges the refresh token unless another call already did it
// since stale was read. Once sent, the exchange is not cancelled with ctx:
// the server rotates the token on receipt and the new pair must be kept.
func (c *GRPCClient) refresh(ctx context.Context, stale models.TokenPair) (models.TokenPair, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	current := c.Tokens()
	if current.AccessToken != stale.AccessToken && current.AccessToken != "" {
		return current, nil
	}
	if current.RefreshToken == "" {
		return models.TokenPair{}, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	}

	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
	defer cancel()

	resp, err := c.client.RefreshToken(rctx, &rpc.RefreshTokenRequest{RefreshToken: current.RefreshToken})
	if err != nil {
		return models.TokenPair{}, err
	}

	pair := models.TokenPair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	c.updateTokens(pair)
	return pair, nil
}

func (c *GRPCClient) Ping(ctx context.Context) error {
	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return mapError(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return ErrUnavailable
	}
	return nil
}

func (c *GRPCClient) SignUp(ctx context.Context, email, password, displayName string) (*models.Session, error) {
	resp, err := c.client.SignUp(ctx, &rpc.SignUpRequest{Email: email, Password: password, DisplayName: displayName})
	if err != nil {
		return nil, mapError(err)
	}
	c.updateTokens(models.TokenPair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken})
	return sessionFromRPC(&resp.Session), nil
}

func (c *GRPCClient) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	resp, err := c.client.SignIn(ctx, &rpc.SignInRequest{Email: email, Password: password})
	if err != nil {
		return nil, mapError(err)
	}
	c.updateTokens(models.TokenPair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken})
	return sessionFromRPC(&resp.Session), nil
}

// SignOut revokes the refresh token on the server and forgets the pair. A
// server answer of Unauthenticated means the session is already gone, which
// counts as success. Transport failures keep the tokens so the user stays
// signed in.
func (c *GRPCClient) SignOut(ctx context.Context) error {
	pair := c.Tokens()
	if pair.Empty() {
		return nil
	}

	_, err := c.client.SignOut(ctx, &rpc.SignOutRequest{RefreshToken: pair.RefreshToken})
	if err = mapError(err); err != nil && !isUnauthorized(err) {
		return err
	}

	c.updateTokens(models.TokenPair{})
	return nil
}

func (c *GRPCClient) WhoAmI(ctx context.Context) (*models.Session, error) {
	if c.Tokens().Empty() {
		return nil, nil
	}

	resp, err := c.client.WhoAmI(ctx, &rpc.Empty{})
	if err != nil {
		err = mapError(err)
		if isUnauthorized(err) {
			c.updateTokens(models.TokenPair{})
		}
		return nil, err
	}
	return sessionFromRPC(resp), nil
}

func (c *GRPCClient) SendPasswordReset(ctx context.Context, email string) error {
	_, err := c.client.SendPasswordReset(ctx, &rpc.SendPasswordResetRequest{Email: email})
	return mapError(err)
}

func (c *GRPCClient) ResetPassword(ctx context.Context, code, newPassword string) error {
	_, err := c.client.ResetPassword(ctx, &rpc.ResetPasswordRequest{Code: code, NewPassword: newPassword})
	return mapError(err)
}

func (c *GRPCClient) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	resp, err := c.client.GetProfile(ctx, &rpc.GetProfileRequest{UserID: userID})
	if err != nil {
		return nil, mapError(err)
	}
	return profileFromRPC(resp), nil
}

func (c *GRPCClient) UpsertProfile(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	resp, err := c.client.UpsertProfile(ctx, profileToRPC(p))
	if err != nil {
		return nil, mapError(err)
	}
	return profileFromRPC(resp), nil
}

func (c *GRPCClient) GetUploadURL(ctx context.Context, contentType string) (string, string, error) {
	resp, err := c.client.GetUploadURL(ctx, &rpc.GetUploadURLRequest{ContentType: contentType})
	if err != nil {
		return "", "", mapError(err)
	}
	return resp.Key, resp.URL, nil
}

func isUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
