package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ShadyM97/LearnHub-Backend/middleware"
	"github.com/ShadyM97/LearnHub-Backend/supabase"
	"github.com/ShadyM97/LearnHub-Backend/utils"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	testUserID  = "0b3e8f8e-7d1c-4c55-9b9e-1f3c2a7d8e10"
	testOtherID = "5a1f2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d"
)

// request describes a handler invocation
type request struct {
	method string
	target string
	body   string
	sub    string            // empty for anonymous
	params map[string]string // chi URL params
}

func (rq request) build() *http.Request {
	req := httptest.NewRequest(rq.method, rq.target, strings.NewReader(rq.body))

	ctx := req.Context()
	if rq.sub != "" {
		ctx = middleware.WithClaims(ctx, &supabase.Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: rq.sub},
			Email:            "member@example.com",
		})
	}
	if len(rq.params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range rq.params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func serve(h http.HandlerFunc, rq request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, rq.build())
	return w
}

func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var body utils.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func strPtr(s string) *string {
	return &s
}
