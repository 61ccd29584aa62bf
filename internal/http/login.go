package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/urbanbyte/contas/internal/auth"
	"github.com/urbanbyte/contas/internal/msg"
	"github.com/urbanbyte/contas/internal/repo"
	"github.com/urbanbyte/contas/internal/util"
)

// LoginAccessToken autentica via formulário OAuth2 (username=email) e emite
// o token de acesso.
func (h *Handler) LoginAccessToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		WriteDetail(w, http.StatusBadRequest, h.cat.T(msg.CorpoInvalido))
		return
	}

	email := r.PostFormValue("username")
	senha := r.PostFormValue("password")

	usuario, err := h.store.Authenticate(r.Context(), email, senha)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			WriteDetail(w, http.StatusBadRequest, h.cat.T(msg.CredenciaisInvalidas))
			return
		}
		log.Error().Err(err).Msg("falha ao autenticar")
		WriteDetail(w, http.StatusInternalServerError, h.cat.T(msg.ErroInterno))
		return
	}
	if !usuario.Ativo {
		WriteDetail(w, http.StatusBadRequest, h.cat.T(msg.UsuarioInativo))
		return
	}

	token, err := h.jwt.CriarTokenAcesso(strconv.FormatInt(usuario.ID, 10), 0)
	if err != nil {
		log.Error().Err(err).Msg("falha ao emitir token de acesso")
		WriteDetail(w, http.StatusInternalServerError, h.cat.T(msg.ErroInterno))
		return
	}

	WriteJSON(w, http.StatusOK, Token{AccessToken: token, TokenType: "bearer"})
}

// RecuperarSenha emite o token de redefinição e envia o link por email.
func (h *Handler) RecuperarSenha(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if !util.EmailValido(email) {
		WriteDetail(w, http.StatusBadRequest, h.cat.T(msg.EmailInvalido))
		return
	}

	usuario, err := h.store.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			WriteDetail(w, http.StatusNotFound, h.cat.T(msg.UsuarioNaoEncontrado))
			return
		}
		log.Error().Err(err).Msg("falha ao buscar usuário para recuperação")
		WriteDetail(w, http.StatusInternalServerError, h.cat.T(msg.ErroInterno))
		return
	}

	token, err := h.jwt.CriarTokenRedefinicao(usuario.Email)
	if err != nil {
		log.Error().Err(err).Msg("falha ao emitir token de redefinição")
		WriteDetail(w, http.StatusInternalServerError, h.cat.T(msg.ErroInterno))
		return
	}

	if !h.mailer.Enabled() {
		log.Error().Msg("recuperação de senha sem SMTP configurado")
		WriteDetail(w, http.StatusInternalServerError, h.cat.T(msg.ErroInterno))
		return
	}
	if err := h.mailer.EnviarEmailRedefinicaoSenha(r.Context(), usuario.Email, token); err != nil {
		log.Error().Err(err).Msg("falha ao enviar email de recuperação")
		WriteDetail(w, http.StatusInternalServerError, h.cat.T(msg.ErroInterno))
		return
	}

	WriteJSON(w, http.StatusOK, Msg{Msg: h.cat.T(msg.RecuperacaoEnviada)})
}

// usuarioPorTokenRedefinicao resolve o token de redefinição no usuário alvo,
// escrevendo a rejeição adequada quando algo falha.
func (h *Handler) usuarioPorTokenRedefinicao(w http.ResponseWriter, r *http.Request, token string) (repo.Usuario, bool) {
	claims, err := h.jwt.Decodificar(token)
	if err != nil {
		WriteDetail(w, http.StatusBadRequest, h.cat.T(msg.TokenInvalido))
		return repo.Usuario{}, false
	}

	usuario, err := h.store.GetByEmail(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			WriteDetail(w, http.StatusNotFound, h.cat.T(msg.UsuarioNaoEncontrado))
			return repo.Usuario{}, false
		}
		log.Error().Err(err).Msg("falha ao resolver token de redefinição")
		WriteDetail(w, http.StatusInternalServerError, h.cat.T(msg.ErroInterno))
		return repo.Usuario{}, false
	}

	if !usuario.Ativo {
		WriteDetail(w, http.StatusBadRequest, h.cat.T(msg.UsuarioInativo))
		return repo.Usuario{}, false
	}

	return usuario, true
}

// RedefinirSenha troca a senha mediante token e senha atual; limpa o
// marcador de primeiro acesso.
func (h *Handler) RedefinirSenha(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Token      string `json:"token"`
		SenhaAtual string `json:"senha_atual"`
		NovaSenha  string `json:"nova_senha"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteDetail(w, http.StatusBadRequest, h.cat.T(msg.CorpoInvalido))
		return
	}

	usuario, ok := h.usuarioPorTokenRedefinicao(w, r, payload.Token)
	if !ok {
		return
	}

	if !auth.Verify(payload.SenhaAtual, usuario.SenhaHash) {
		WriteDetail(w, http.StatusBadRequest, h.cat.T(msg.SenhaAtualInvalida))
		return
	}

	if !util.SenhaValida(payload.NovaSenha) {
		WriteDetail(w, http.StatusBadRequest, h.cat.T(msg.SenhaFraca))
		return
	}

	primeiroAcesso := false
	if _, err := h.store.Update(r.Context(), usuario, repo.AtualizarUsuario{
		Senha:          &payload.NovaSenha,
		PrimeiroAcesso: &primeiroAcesso,
	}); err != nil {
		log.Error().Err(err).Msg("falha ao redefinir senha")
		WriteDetail(w, http.StatusInternalServerError, h.cat.T(msg.ErroInterno))
		return
	}

	WriteJSON(w, http.StatusOK, Msg{Msg: h.cat.T(msg.SenhaAlterada)})
}

// CriarSenha define a senha sem exigir a atual; atende contas criadas pelo
// administrador que ainda não têm senha escolhida pelo titular.
func (h *Handler) CriarSenha(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Token     string `json:"token"`
		NovaSenha string `json:"nova_senha"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteDetail(w, http.StatusBadRequest, h.cat.T(msg.CorpoInvalido))
		return
	}

	usuario, ok := h.usuarioPorTokenRedefinicao(w, r, payload.Token)
	if !ok {
		return
	}

	if !util.SenhaValida(payload.NovaSenha) {
		WriteDetail(w, http.StatusBadRequest, h.cat.T(msg.SenhaFraca))
		return
	}

	if _, err := h.store.Update(r.Context(), usuario, repo.AtualizarUsuario{
		Senha: &payload.NovaSenha,
	}); err != nil {
		log.Error().Err(err).Msg("falha ao criar senha")
		WriteDetail(w, http.StatusInternalServerError, h.cat.T(msg.ErroInterno))
		return
	}

	WriteJSON(w, http.StatusOK, Msg{Msg: h.cat.T(msg.SenhaCriada)})
}
