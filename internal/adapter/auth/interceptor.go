package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type claimsKey struct{}

// ClaimsFromContext returns the verified claims of an authenticated call.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok
}

type Guard struct {
	verifier *Verifier
	policy   *Policy
	log      *slog.Logger
}

func NewGuard(verifier *Verifier, policy *Policy, log *slog.Logger) *Guard {
	return &Guard{verifier: verifier, policy: policy, log: log}
}

func (g *Guard) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx, err := g.authorize(ctx, info.FullMethod)
		if err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}

func (g *Guard) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx, err := g.authorize(ss.Context(), info.FullMethod)
		if err != nil {
			return err
		}
		return handler(srv, &authedStream{ServerStream: ss, ctx: ctx})
	}
}

func (g *Guard) authorize(ctx context.Context, fullMethod string) (context.Context, error) {
	raw, _ := bearerToken(ctx)
	claims, code, msg := g.check(fullMethod, raw)
	if code != codes.OK {
		return nil, status.Error(code, msg)
	}
	if claims == nil {
		return ctx, nil
	}
	return context.WithValue(ctx, claimsKey{}, claims), nil
}

// check applies the method's requirement to a raw bearer token. Claims are
// nil for public methods.
func (g *Guard) check(method, raw string) (*Claims, codes.Code, string) {
	req := g.policy.Requirement(method)
	if req.Public {
		return nil, codes.OK, ""
	}

	if raw == "" {
		g.log.Warn("missing bearer token", "method", method)
		return nil, codes.Unauthenticated, "missing bearer token"
	}

	claims, err := g.verifier.Verify(raw)
	if err != nil {
		g.log.Warn("rejected bearer token", "method", method, "err", err)
		return nil, codes.Unauthenticated, "invalid bearer token"
	}

	if req.Scope != "" && !claims.HasScope(req.Scope) {
		return nil, codes.PermissionDenied, fmt.Sprintf("scope %q required", req.Scope)
	}
	return claims, codes.OK, ""
}

func bearerToken(ctx context.Context) (string, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", false
	}
	for _, v := range md.Get("authorization") {
		if token, ok := parseBearer(v); ok {
			return token, true
		}
	}
	return "", false
}

func parseBearer(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", false
	}
	return token, true
}

type authedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *authedStream) Context() context.Context {
	return s.ctx
}
