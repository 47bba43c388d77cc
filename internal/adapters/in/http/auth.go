package http

import (
	"fmt"
	"strings"
	"time"

	"cafe/internal/core/domain/model/actor"
	"cafe/internal/core/domain/model/kernel"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const actorContextKey = "actor"

// Claims are the bearer token claims. Subject is the actor id.
type Claims struct {
	Role string `json:"role"`
	jwt.StandardClaims
}

// IssueToken signs an HS256 token for who.
func IssueToken(secret []byte, who actor.Actor, ttl time.Duration) (string, error) {
	claims := &Claims{
		Role: who.Role().String(),
		StandardClaims: jwt.StandardClaims{
			Subject:   who.ID().String(),
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(ttl).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// AuthMiddleware verifies the bearer token and stores the Actor on the context.
// Requests matched by skipper pass through unauthenticated.
func AuthMiddleware(secret []byte, skipper middleware.Skipper) echo.MiddlewareFunc {
	if skipper == nil {
		skipper = middleware.DefaultSkipper
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if skipper(ctx) {
				return next(ctx)
			}

			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return errUnauthenticated
			}

			who, err := parseToken(secret, parts[1])
			if err != nil {
				return fmt.Errorf("%w: %v", errUnauthenticated, err)
			}

			ctx.Set(actorContextKey, who)
			return next(ctx)
		}
	}
}

func parseToken(secret []byte, raw string) (actor.Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return actor.Actor{}, err
	}
	if !token.Valid {
		return actor.Actor{}, fmt.Errorf("token is not valid")
	}

	id, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return actor.Actor{}, err
	}
	role, err := actor.ParseRole(claims.Role)
	if err != nil {
		return actor.Actor{}, err
	}
	return actor.NewActor(id, role)
}

func actorFrom(ctx echo.Context) (actor.Actor, error) {
	who, ok := ctx.Get(actorContextKey).(actor.Actor)
	if !ok {
		return actor.Actor{}, errUnauthenticated
	}
	return who, nil
}
