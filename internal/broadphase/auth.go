// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package broadphase

import (
	"crypto/rand"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/linequad/linequad/pkg/log"
)

// statsAuth mints and verifies the single static bearer token the HTTP
// stats API accepts — a radical narrowing of the teacher's JWTAuthenticator
// (internal/auth/jwt.go): one token, no users, roles, sessions or LDAP/OIDC,
// because this API has no concept of any of those.
type statsAuth struct {
	secret []byte
	token  string
}

func newStatsAuth() (*statsAuth, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}

	claims := jwt.MapClaims{
		"sub": "linequad-stats",
		"iat": time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return nil, err
	}

	return &statsAuth{secret: secret, token: token}, nil
}

// Token returns the bearer token callers must present. Minted once at
// startup and logged, since there is no login flow to hand it out through.
func (a *statsAuth) Token() string {
	return a.token
}

func (a *statsAuth) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			http.Error(rw, "missing bearer token", http.StatusUnauthorized)
			return
		}

		_, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			return a.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
		if err != nil {
			log.Warnf("broadphase: stats API auth failed: %v", err)
			http.Error(rw, "invalid bearer token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(rw, r)
	})
}
