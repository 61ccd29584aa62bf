package middleware

import (
	"encoding/json"
	"net/http"
)

// writeDetail escreve a rejeição no formato {"detail": mensagem} usado em
// toda a API.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
