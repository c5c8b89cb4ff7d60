package internal

const (
	COOKIE_ACCESS_TOKEN_NAME = "construtora_access_token"
	COOKIE_REDIRECT_NAME     = "construtora_redirect"
)
