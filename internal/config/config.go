package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config centraliza a configuração carregada do ambiente.
type Config struct {
	Porta        int
	NomeProjeto  string
	ServidorHost string
	Idioma       string

	ChaveSecreta   string
	AccessTokenTTL time.Duration
	ResetTokenTTL  time.Duration

	DBDSN    string
	RedisURL string

	AllowOrigins []string

	SMTPHost     string
	SMTPPorta    int
	SMTPUsuario  string
	SMTPSenha    string
	SMTPTLS      bool
	EmailsDe     string
	EmailsDeNome string
	// EmailsHabilitados é derivado: host, porta e remetente configurados.
	EmailsHabilitados bool

	PrimeiroSuperusuario      string
	SenhaPrimeiroSuperusuario string
	RegistroAberto            bool

	LimiteLogin      RateLimitLogin
	RateLimitPublico RateLimitConfig
}

// RateLimitConfig representa limites simples para throttling em memória.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// RateLimitLogin define a janela fixa aplicada ao endpoint de login.
type RateLimitLogin struct {
	Max    int
	Janela time.Duration
}

// Load carrega variáveis de ambiente e aplica defaults seguros.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return nil, errors.New("PORT inválida")
	}
	cfg.Porta = port

	cfg.NomeProjeto = strings.TrimSpace(getEnv("NOME_PROJETO", ""))
	if cfg.NomeProjeto == "" {
		return nil, errors.New("NOME_PROJETO obrigatório")
	}

	cfg.ServidorHost = strings.TrimRight(strings.TrimSpace(getEnv("SERVIDOR_HOST", "")), "/")
	if cfg.ServidorHost == "" {
		return nil, errors.New("SERVIDOR_HOST obrigatório")
	}

	cfg.Idioma = strings.TrimSpace(getEnv("IDIOMA_MENSAGENS", "pt-BR"))

	cfg.ChaveSecreta = strings.TrimSpace(getEnv("CHAVE_SECRETA", ""))
	if len(cfg.ChaveSecreta) < 32 {
		return nil, errors.New("CHAVE_SECRETA deve ter pelo menos 32 caracteres")
	}

	accessTTL, err := parseDurationEnv("ACCESS_TOKEN_TTL", 192*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.AccessTokenTTL = accessTTL

	resetTTL, err := parseDurationEnv("RESET_TOKEN_TTL", 48*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.ResetTokenTTL = resetTTL

	cfg.DBDSN = montarDSN()
	if cfg.DBDSN == "" {
		return nil, errors.New("defina DB_DSN ou as partes POSTGRES_USUARIO/POSTGRES_SENHA/POSTGRES_SERVIDOR/POSTGRES_BD")
	}

	cfg.RedisURL = getEnv("REDIS_URL", "")
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL obrigatório")
	}

	origins, err := parseOrigins(getEnv("ALLOW_ORIGINS", ""))
	if err != nil {
		return nil, err
	}
	cfg.AllowOrigins = origins

	cfg.SMTPHost = strings.TrimSpace(getEnv("SMTP_HOST", ""))
	if portaSMTP := getEnv("SMTP_PORTA", ""); portaSMTP != "" {
		p, err := strconv.Atoi(portaSMTP)
		if err != nil || p <= 0 {
			return nil, errors.New("SMTP_PORTA inválida")
		}
		cfg.SMTPPorta = p
	}
	cfg.SMTPUsuario = getEnv("SMTP_USUARIO", "")
	cfg.SMTPSenha = getEnv("SMTP_SENHA", "")
	cfg.SMTPTLS = parseBoolEnv("SMTP_TLS", true)
	cfg.EmailsDe = strings.TrimSpace(getEnv("EMAILS_DE", ""))
	cfg.EmailsDeNome = strings.TrimSpace(getEnv("EMAILS_DE_NOME", ""))
	if cfg.EmailsDeNome == "" {
		cfg.EmailsDeNome = cfg.NomeProjeto
	}
	cfg.EmailsHabilitados = cfg.SMTPHost != "" && cfg.SMTPPorta > 0 && cfg.EmailsDe != ""

	cfg.PrimeiroSuperusuario = strings.ToLower(strings.TrimSpace(getEnv("PRIMEIRO_SUPERUSUARIO", "")))
	if cfg.PrimeiroSuperusuario == "" {
		return nil, errors.New("PRIMEIRO_SUPERUSUARIO obrigatório")
	}
	cfg.SenhaPrimeiroSuperusuario = getEnv("SENHA_PRIMEIRO_SUPERUSUARIO", "")
	if cfg.SenhaPrimeiroSuperusuario == "" {
		return nil, errors.New("SENHA_PRIMEIRO_SUPERUSUARIO obrigatória")
	}

	cfg.RegistroAberto = parseBoolEnv("USERS_OPEN_REGISTRATION", false)

	limite, err := parseRateLimit(getEnv("LIMITE_TAXA_LOGIN", "10/minute"))
	if err != nil {
		return nil, err
	}
	cfg.LimiteLogin = limite

	cfg.RateLimitPublico = RateLimitConfig{RequestsPerSecond: 10, Burst: 20}

	return cfg, nil
}

// executandoEmDocker detecta execução em container pela variável de ambiente
// ou pelo marcador /.dockerenv.
func executandoEmDocker() bool {
	if getEnv("AMBIENTE_SERVIDOR", "producao") == "producao" {
		return true
	}
	_, err := os.Stat("/.dockerenv")
	return err == nil
}

// montarDSN devolve DB_DSN quando definida; caso contrário monta a URI a
// partir das partes POSTGRES_*. Fora de container o host é sempre localhost.
func montarDSN() string {
	if dsn := strings.TrimSpace(getEnv("DB_DSN", "")); dsn != "" {
		return dsn
	}

	usuario := getEnv("POSTGRES_USUARIO", "")
	senha := getEnv("POSTGRES_SENHA", "")
	host := getEnv("POSTGRES_SERVIDOR", "")
	if !executandoEmDocker() {
		host = "localhost"
	}
	bd := getEnv("POSTGRES_BD", "")

	if usuario == "" || senha == "" || host == "" || bd == "" {
		return ""
	}
	return fmt.Sprintf("postgres://%s:%s@%s/%s", usuario, senha, host, bd)
}

// parseOrigins aceita lista JSON ou valores separados por vírgula.
func parseOrigins(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var origins []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &origins); err != nil {
			return nil, errors.New("ALLOW_ORIGINS inválida: JSON malformado")
		}
	} else {
		origins = strings.Split(raw, ",")
	}

	out := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			out = append(out, origin)
		}
	}
	return out, nil
}

// parseRateLimit interpreta políticas no formato "10/minute".
func parseRateLimit(raw string) (RateLimitLogin, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), "/", 2)
	if len(parts) != 2 {
		return RateLimitLogin{}, errors.New("LIMITE_TAXA_LOGIN inválido: use N/second, N/minute ou N/hour")
	}

	max, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || max <= 0 {
		return RateLimitLogin{}, errors.New("LIMITE_TAXA_LOGIN inválido: quantidade deve ser inteiro positivo")
	}

	var janela time.Duration
	switch strings.ToLower(strings.TrimSpace(parts[1])) {
	case "second":
		janela = time.Second
	case "minute":
		janela = time.Minute
	case "hour":
		janela = time.Hour
	default:
		return RateLimitLogin{}, errors.New("LIMITE_TAXA_LOGIN inválido: janela desconhecida")
	}

	return RateLimitLogin{Max: max, Janela: janela}, nil
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

func parseBoolEnv(key string, def bool) bool {
	val := strings.TrimSpace(getEnv(key, ""))
	if val == "" {
		return def
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return parsed
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	dur, err := time.ParseDuration(val)
	if err != nil {
		return 0, errors.New(key + " inválido")
	}
	return dur, nil
}
