package mail

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"

	"github.com/rs/zerolog/log"
	"github.com/wneessen/go-mail"

	"github.com/urbanbyte/contas/internal/config"
)

//go:embed templates/*.html
var templatesFS embed.FS

// ErrEmailsDesabilitados indica envio sem configuração SMTP completa. O
// chamador deve ter consultado Enabled antes; chegar aqui é erro de programa.
var ErrEmailsDesabilitados = errors.New("emails desabilitados: configure SMTP_HOST, SMTP_PORTA e EMAILS_DE")

// Sender compõe e entrega emails transacionais por SMTP, de forma síncrona e
// sem fila ou retentativa.
type Sender struct {
	cfg       *config.Config
	templates *template.Template
}

// NewSender carrega os modelos embutidos e prepara o remetente.
func NewSender(cfg *config.Config) (*Sender, error) {
	tpls, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("modelos de email: %w", err)
	}
	return &Sender{cfg: cfg, templates: tpls}, nil
}

// Enabled informa se a entrega de emails está configurada.
func (s *Sender) Enabled() bool {
	return s.cfg.EmailsHabilitados
}

func (s *Sender) renderizar(nome string, dados any) (string, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, nome, dados); err != nil {
		return "", fmt.Errorf("renderizar %s: %w", nome, err)
	}
	return buf.String(), nil
}

// politicaTLS traduz o flag de configuração: com SMTP_TLS ligado o STARTTLS
// é obrigatório; desligado, o envio tenta TLS e segue sem quando o servidor
// não oferece.
func (s *Sender) politicaTLS() mail.TLSPolicy {
	if s.cfg.SMTPTLS {
		return mail.TLSMandatory
	}
	return mail.TLSOpportunistic
}

// montarMensagem compõe a mensagem HTML com remetente e destinatário.
func (s *Sender) montarMensagem(para, assunto, corpoHTML string) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.FromFormat(s.cfg.EmailsDeNome, s.cfg.EmailsDe); err != nil {
		return nil, fmt.Errorf("remetente inválido: %w", err)
	}
	if err := m.To(para); err != nil {
		return nil, fmt.Errorf("destinatário inválido: %w", err)
	}
	m.Subject(assunto)
	m.SetBodyString(mail.TypeTextHTML, corpoHTML)
	return m, nil
}

// enviar entrega a mensagem via SMTP com corpo HTML.
func (s *Sender) enviar(ctx context.Context, para, assunto, corpoHTML string) error {
	if !s.Enabled() {
		return ErrEmailsDesabilitados
	}

	m, err := s.montarMensagem(para, assunto, corpoHTML)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(s.cfg.SMTPPorta),
		mail.WithTLSPolicy(s.politicaTLS()),
	}
	if s.cfg.SMTPUsuario != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.SMTPUsuario),
			mail.WithPassword(s.cfg.SMTPSenha),
		)
	}

	cliente, err := mail.NewClient(s.cfg.SMTPHost, opts...)
	if err != nil {
		return fmt.Errorf("cliente smtp: %w", err)
	}

	if err := cliente.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("envio smtp: %w", err)
	}

	log.Info().Str("para", para).Str("assunto", assunto).Msg("email enviado")
	return nil
}

// EnviarEmailTeste envia a mensagem de verificação da configuração SMTP.
func (s *Sender) EnviarEmailTeste(ctx context.Context, para string) error {
	assunto := fmt.Sprintf("%s - Email de teste", s.cfg.NomeProjeto)
	corpo, err := s.renderizar("email_teste.html", map[string]any{
		"Projeto": s.cfg.NomeProjeto,
		"Email":   para,
	})
	if err != nil {
		return err
	}
	return s.enviar(ctx, para, assunto, corpo)
}

// EnviarEmailRedefinicaoSenha envia o link de redefinição construído a partir
// do host público e do token assinado.
func (s *Sender) EnviarEmailRedefinicaoSenha(ctx context.Context, para, token string) error {
	assunto := fmt.Sprintf("%s - Recuperação de senha para o usuário %s", s.cfg.NomeProjeto, para)
	link := fmt.Sprintf("%s/redefinir-senha?token=%s", s.cfg.ServidorHost, token)
	corpo, err := s.renderizar("redefinir_senha.html", map[string]any{
		"Projeto":      s.cfg.NomeProjeto,
		"Email":        para,
		"Link":         link,
		"HorasValidas": int(s.cfg.ResetTokenTTL.Hours()),
	})
	if err != nil {
		return err
	}
	return s.enviar(ctx, para, assunto, corpo)
}

// EnviarEmailNovaConta comunica a criação de conta pelo administrador.
func (s *Sender) EnviarEmailNovaConta(ctx context.Context, para, usuario, senha string) error {
	assunto := fmt.Sprintf("%s - Nova conta para usuário %s", s.cfg.NomeProjeto, usuario)
	corpo, err := s.renderizar("nova_conta.html", map[string]any{
		"Projeto": s.cfg.NomeProjeto,
		"Usuario": usuario,
		"Senha":   senha,
		"Link":    s.cfg.ServidorHost,
	})
	if err != nil {
		return err
	}
	return s.enviar(ctx, para, assunto, corpo)
}
