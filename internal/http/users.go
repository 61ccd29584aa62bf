package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/urbanbyte/contas/internal/cpf"
	httpmiddleware "github.com/urbanbyte/contas/internal/http/middleware"
	"github.com/urbanbyte/contas/internal/msg"
	"github.com/urbanbyte/contas/internal/repo"
	"github.com/urbanbyte/contas/internal/util"
)

// usuarioPayload cobre os corpos de criação e de atualização parcial; campos
// ausentes chegam como nil.
type usuarioPayload struct {
	Nome         *string         `json:"nome"`
	Sobrenome    *string         `json:"sobrenome"`
	CPF          *string         `json:"cpf"`
	Email        *string         `json:"email"`
	Telefone     *string         `json:"telefone"`
	Senha        *string         `json:"senha"`
	Permissao    *repo.Permissao `json:"permissao"`
	Ativo        *bool           `json:"ativo"`
	Superusuario *bool           `json:"superusuario"`
}

// validar devolve a chave da primeira crítica encontrada nos campos
// presentes, ou vazio quando tudo passa.
func (p usuarioPayload) validar() string {
	if p.Email != nil && !util.EmailValido(*p.Email) {
		return msg.EmailInvalido
	}
	if p.CPF != nil && !cpf.Valido(*p.CPF) {
		return msg.CPFInvalido
	}
	if p.Senha != nil && !util.SenhaValida(*p.Senha) {
		return msg.SenhaFraca
	}
	return ""
}

func (h *Handler) decodificarUsuario(w http.ResponseWriter, r *http.Request) (usuarioPayload, bool) {
	var payload usuarioPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteDetail(w, http.StatusBadRequest, h.cat.T(msg.CorpoInvalido))
		return usuarioPayload{}, false
	}
	if chave := payload.validar(); chave != "" {
		WriteDetail(w, http.StatusBadRequest, h.cat.T(chave))
		return usuarioPayload{}, false
	}
	return payload, true
}

// emailDisponivel garante que nenhum outro usuário ocupa o email informado.
func (h *Handler) emailDisponivel(w http.ResponseWriter, r *http.Request, email string) bool {
	_, err := h.store.GetByEmail(r.Context(), email)
	if err == nil {
		WriteDetail(w, http.StatusBadRequest, h.cat.T(msg.EmailJaCadastrado))
		return false
	}
	if !errors.Is(err, repo.ErrNotFound) {
		log.Error().Err(err).Msg("falha ao verificar email")
		WriteDetail(w, http.StatusInternalServerError, h.cat.T(msg.ErroInterno))
		return false
	}
	return true
}

// cpfDisponivel garante que nenhum outro usuário ocupa o CPF informado.
func (h *Handler) cpfDisponivel(w http.ResponseWriter, r *http.Request, valor string) bool {
	_, err := h.store.GetByCPF(r.Context(), valor)
	if err == nil {
		WriteDetail(w, http.StatusBadRequest, h.cat.T(msg.CPFJaCadastrado))
		return false
	}
	if !errors.Is(err, repo.ErrNotFound) {
		log.Error().Err(err).Msg("falha ao verificar CPF")
		WriteDetail(w, http.StatusInternalServerError, h.cat.T(msg.ErroInterno))
		return false
	}
	return true
}

// ListarUsuarios pagina os usuários por skip/limit.
func (h *Handler) ListarUsuarios(w http.ResponseWriter, r *http.Request) {
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	usuarios, err := h.store.List(r.Context(), skip, limit)
	if err != nil {
		log.Error().Err(err).Msg("falha ao listar usuários")
		WriteDetail(w, http.StatusInternalServerError, h.cat.T(msg.ErroInterno))
		return
	}

	WriteJSON(w, http.StatusOK, usuarios)
}

// CriarUsuario cadastra um usuário em nome do administrador e avisa o
// titular por email quando o envio está habilitado.
func (h *Handler) CriarUsuario(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decodificarUsuario(w, r)
	if !ok {
		return
	}
	if payload.Email == nil || payload.CPF == nil || payload.Senha == nil {
		WriteDetail(w, http.StatusBadRequest, h.cat.T(msg.CorpoInvalido))
		return
	}
	if !h.emailDisponivel(w, r, *payload.Email) {
		return
	}
	if !h.cpfDisponivel(w, r, *payload.CPF) {
		return
	}

	input := repo.CriarUsuario{
		Nome:      payload.Nome,
		Sobrenome: payload.Sobrenome,
		CPF:       *payload.CPF,
		Email:     *payload.Email,
		Senha:     *payload.Senha,
		Ativo:     true,
	}
	if payload.Telefone != nil {
		input.Telefone = *payload.Telefone
	}
	if payload.Permissao != nil {
		input.Permissao = *payload.Permissao
	}
	if payload.Ativo != nil {
		input.Ativo = *payload.Ativo
	}
	if payload.Superusuario != nil {
		input.Superusuario = *payload.Superusuario
	}

	usuario, err := h.store.Create(r.Context(), input)
	if err != nil {
		log.Error().Err(err).Msg("falha ao criar usuário")
		WriteDetail(w, http.StatusInternalServerError, h.cat.T(msg.ErroInterno))
		return
	}

	if h.mailer.Enabled() {
		if err := h.mailer.EnviarEmailNovaConta(r.Context(), usuario.Email, usuario.Email, input.Senha); err != nil {
			log.Warn().Err(err).Str("email", usuario.Email).Msg("falha ao enviar email de nova conta")
		}
	}

	WriteJSON(w, http.StatusOK, usuario)
}

// CriarUsuarioAberto é o cadastro público, quando habilitado na configuração.
func (h *Handler) CriarUsuarioAberto(w http.ResponseWriter, r *http.Request) {
	if !h.cfg.RegistroAberto {
		WriteDetail(w, http.StatusForbidden, h.cat.T(msg.RegistroFechado))
		return
	}

	payload, ok := h.decodificarUsuario(w, r)
	if !ok {
		return
	}
	if payload.Email == nil || payload.CPF == nil || payload.Senha == nil {
		WriteDetail(w, http.StatusBadRequest, h.cat.T(msg.CorpoInvalido))
		return
	}
	if !h.emailDisponivel(w, r, *payload.Email) {
		return
	}
	if !h.cpfDisponivel(w, r, *payload.CPF) {
		return
	}

	input := repo.CriarUsuario{
		Nome:      payload.Nome,
		Sobrenome: payload.Sobrenome,
		CPF:       *payload.CPF,
		Email:     *payload.Email,
		Senha:     *payload.Senha,
		Permissao: repo.PermissaoUsuario,
		Ativo:     true,
	}
	if payload.Telefone != nil {
		input.Telefone = *payload.Telefone
	}

	usuario, err := h.store.Create(r.Context(), input)
	if err != nil {
		log.Error().Err(err).Msg("falha no cadastro aberto")
		WriteDetail(w, http.StatusInternalServerError, h.cat.T(msg.ErroInterno))
		return
	}

	WriteJSON(w, http.StatusOK, usuario)
}

// LerUsuarioAtual devolve o dono do token.
func (h *Handler) LerUsuarioAtual(w http.ResponseWriter, r *http.Request) {
	usuario, ok := httpmiddleware.UsuarioAtual(r.Context())
	if !ok {
		WriteDetail(w, http.StatusInternalServerError, h.cat.T(msg.ErroInterno))
		return
	}
	WriteJSON(w, http.StatusOK, usuario)
}

// AtualizarUsuarioAtual aplica atualização parcial sobre a própria conta.
// Permissão, superusuário e ativo ficam fora do alcance do titular.
func (h *Handler) AtualizarUsuarioAtual(w http.ResponseWriter, r *http.Request) {
	usuario, ok := httpmiddleware.UsuarioAtual(r.Context())
	if !ok {
		WriteDetail(w, http.StatusInternalServerError, h.cat.T(msg.ErroInterno))
		return
	}

	payload, ok := h.decodificarUsuario(w, r)
	if !ok {
		return
	}
	if payload.Email != nil && *payload.Email != usuario.Email {
		if !h.emailDisponivel(w, r, *payload.Email) {
			return
		}
	}

	atualizado, err := h.store.Update(r.Context(), usuario, repo.AtualizarUsuario{
		Nome:      payload.Nome,
		Sobrenome: payload.Sobrenome,
		CPF:       payload.CPF,
		Email:     payload.Email,
		Telefone:  payload.Telefone,
		Senha:     payload.Senha,
	})
	if err != nil {
		log.Error().Err(err).Msg("falha ao atualizar usuário atual")
		WriteDetail(w, http.StatusInternalServerError, h.cat.T(msg.ErroInterno))
		return
	}

	WriteJSON(w, http.StatusOK, atualizado)
}

// LerUsuarioPorID devolve o próprio registro para qualquer usuário e o de
// terceiros apenas para superusuários.
func (h *Handler) LerUsuarioPorID(w http.ResponseWriter, r *http.Request) {
	atual, ok := httpmiddleware.UsuarioAtual(r.Context())
	if !ok {
		WriteDetail(w, http.StatusInternalServerError, h.cat.T(msg.ErroInterno))
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteDetail(w, http.StatusNotFound, h.cat.T(msg.UsuarioNaoEncontrado))
		return
	}

	if id == atual.ID {
		WriteJSON(w, http.StatusOK, atual)
		return
	}
	if !atual.Superusuario {
		WriteDetail(w, http.StatusBadRequest, h.cat.T(msg.PrivilegiosInsuficientes))
		return
	}

	usuario, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			WriteDetail(w, http.StatusNotFound, h.cat.T(msg.UsuarioNaoEncontrado))
			return
		}
		log.Error().Err(err).Msg("falha ao buscar usuário")
		WriteDetail(w, http.StatusInternalServerError, h.cat.T(msg.ErroInterno))
		return
	}

	WriteJSON(w, http.StatusOK, usuario)
}

// AtualizarUsuario é a atualização administrativa, com acesso a todos os
// campos do registro.
func (h *Handler) AtualizarUsuario(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteDetail(w, http.StatusNotFound, h.cat.T(msg.UsuarioNaoEncontrado))
		return
	}

	usuario, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			WriteDetail(w, http.StatusNotFound, h.cat.T(msg.UsuarioNaoEncontrado))
			return
		}
		log.Error().Err(err).Msg("falha ao buscar usuário")
		WriteDetail(w, http.StatusInternalServerError, h.cat.T(msg.ErroInterno))
		return
	}

	payload, ok := h.decodificarUsuario(w, r)
	if !ok {
		return
	}
	if payload.Email != nil && *payload.Email != usuario.Email {
		if !h.emailDisponivel(w, r, *payload.Email) {
			return
		}
	}

	atualizado, err := h.store.Update(r.Context(), usuario, repo.AtualizarUsuario{
		Nome:         payload.Nome,
		Sobrenome:    payload.Sobrenome,
		CPF:          payload.CPF,
		Email:        payload.Email,
		Telefone:     payload.Telefone,
		Senha:        payload.Senha,
		Permissao:    payload.Permissao,
		Ativo:        payload.Ativo,
		Superusuario: payload.Superusuario,
	})
	if err != nil {
		log.Error().Err(err).Msg("falha na atualização administrativa")
		WriteDetail(w, http.StatusInternalServerError, h.cat.T(msg.ErroInterno))
		return
	}

	WriteJSON(w, http.StatusOK, atualizado)
}
