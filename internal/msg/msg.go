// Package msg concentra as mensagens voltadas ao usuário, indexadas por
// idioma. Todo texto de resposta HTTP sai daqui; os handlers nunca carregam
// strings de apresentação.
package msg

// Chaves de mensagem.
const (
	CredenciaisInvalidas     = "credenciais_invalidas"
	UsuarioInativo           = "usuario_inativo"
	TokenInvalido            = "token_invalido"
	CredenciaisNaoValidadas  = "credenciais_nao_validadas"
	UsuarioNaoEncontrado     = "usuario_nao_encontrado"
	PrivilegiosInsuficientes = "privilegios_insuficientes"
	EmailJaCadastrado        = "email_ja_cadastrado"
	CPFJaCadastrado          = "cpf_ja_cadastrado"
	CPFInvalido              = "cpf_invalido"
	EmailInvalido            = "email_invalido"
	SenhaFraca               = "senha_fraca"
	RegistroFechado          = "registro_fechado"
	SenhaAtualInvalida       = "senha_atual_invalida"
	SenhaAlterada            = "senha_alterada"
	SenhaCriada              = "senha_criada"
	RecuperacaoEnviada       = "recuperacao_enviada"
	EmailTesteEnviado        = "email_teste_enviado"
	MuitasTentativas         = "muitas_tentativas"
	CorpoInvalido            = "corpo_invalido"
	ErroInterno              = "erro_interno"
)

var catalogos = map[string]map[string]string{
	"pt-BR": {
		CredenciaisInvalidas:     "Usuário ou senha inválidos.",
		UsuarioInativo:           "Usuário inativo.",
		TokenInvalido:            "Token inválido.",
		CredenciaisNaoValidadas:  "Não foi possível validar as credenciais.",
		UsuarioNaoEncontrado:     "Usuário não encontrado.",
		PrivilegiosInsuficientes: "O usuário não tem privilégios suficientes.",
		EmailJaCadastrado:        "O usuário com este nome de usuário já existe no sistema.",
		CPFJaCadastrado:          "O usuário com este CPF já existe no sistema.",
		CPFInvalido:              "CPF inválido.",
		EmailInvalido:            "Email inválido.",
		SenhaFraca:               "A senha deve ter pelo menos 8 caracteres.",
		RegistroFechado:          "O registro aberto de usuário é proibido neste servidor.",
		SenhaAtualInvalida:       "Senha atual inválida.",
		SenhaAlterada:            "Senha alterada com sucesso.",
		SenhaCriada:              "Senha criada com sucesso.",
		RecuperacaoEnviada:       "Email de recuperação de senha enviado.",
		EmailTesteEnviado:        "Email de teste enviado.",
		MuitasTentativas:         "Muitas tentativas de login. Tente novamente mais tarde.",
		CorpoInvalido:            "Corpo da requisição inválido.",
		ErroInterno:              "Erro interno.",
	},
	"en": {
		CredenciaisInvalidas:     "Invalid username or password.",
		UsuarioInativo:           "Inactive user.",
		TokenInvalido:            "Invalid token.",
		CredenciaisNaoValidadas:  "Could not validate credentials.",
		UsuarioNaoEncontrado:     "User not found.",
		PrivilegiosInsuficientes: "The user doesn't have enough privileges.",
		EmailJaCadastrado:        "A user with this username already exists in the system.",
		CPFJaCadastrado:          "A user with this CPF already exists in the system.",
		CPFInvalido:              "Invalid CPF.",
		EmailInvalido:            "Invalid email.",
		SenhaFraca:               "Password must be at least 8 characters long.",
		RegistroFechado:          "Open user registration is forbidden on this server.",
		SenhaAtualInvalida:       "Incorrect current password.",
		SenhaAlterada:            "Password updated successfully.",
		SenhaCriada:              "Password created successfully.",
		RecuperacaoEnviada:       "Password recovery email sent.",
		EmailTesteEnviado:        "Test email sent.",
		MuitasTentativas:         "Too many login attempts. Try again later.",
		CorpoInvalido:            "Invalid request body.",
		ErroInterno:              "Internal error.",
	},
}

// Catalogo resolve chaves de mensagem para um idioma fixo.
type Catalogo struct {
	mensagens map[string]string
}

// NovoCatalogo devolve o catálogo do idioma pedido, caindo em pt-BR quando o
// idioma não existe.
func NovoCatalogo(idioma string) Catalogo {
	mensagens, ok := catalogos[idioma]
	if !ok {
		mensagens = catalogos["pt-BR"]
	}
	return Catalogo{mensagens: mensagens}
}

// T traduz a chave; devolve a própria chave quando desconhecida, para falhas
// ficarem visíveis em vez de silenciosas.
func (c Catalogo) T(chave string) string {
	if texto, ok := c.mensagens[chave]; ok {
		return texto
	}
	return chave
}
