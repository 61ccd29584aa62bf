package http

import (
	"encoding/json"
	"net/http"
)

// Msg é a resposta simples {"msg": ...} das operações sem retorno de dados.
type Msg struct {
	Msg string `json:"msg"`
}

// Token é a resposta do login, compatível com OAuth2 password flow.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// WriteJSON serializa a resposta de sucesso.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteDetail escreve a rejeição no formato {"detail": mensagem}.
func WriteDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
