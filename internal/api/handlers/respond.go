package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "framerr/internal/api/context"
	"framerr/internal/platform/auth"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func routeParam(r *http.Request, name string) string {
	if ps, ok := r.Context().Value(apiContext.Params).(httprouter.Params); ok {
		return ps.ByName(name)
	}
	return ""
}

func requestClaims(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(apiContext.Claims).(*auth.Claims); ok {
		return claims
	}
	return nil
}
