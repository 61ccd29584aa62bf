package http

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/urbanbyte/contas/internal/msg"
	"github.com/urbanbyte/contas/internal/util"
)

// EmailTeste dispara um email de verificação de entrega para o endereço
// informado. Restrito a superusuários.
func (h *Handler) EmailTeste(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteDetail(w, http.StatusBadRequest, h.cat.T(msg.CorpoInvalido))
		return
	}
	if !util.EmailValido(payload.Email) {
		WriteDetail(w, http.StatusBadRequest, h.cat.T(msg.EmailInvalido))
		return
	}

	if !h.mailer.Enabled() {
		log.Error().Msg("email de teste sem SMTP configurado")
		WriteDetail(w, http.StatusInternalServerError, h.cat.T(msg.ErroInterno))
		return
	}
	if err := h.mailer.EnviarEmailTeste(r.Context(), payload.Email); err != nil {
		log.Error().Err(err).Msg("falha ao enviar email de teste")
		WriteDetail(w, http.StatusInternalServerError, h.cat.T(msg.ErroInterno))
		return
	}

	WriteJSON(w, http.StatusOK, Msg{Msg: h.cat.T(msg.EmailTesteEnviado)})
}
