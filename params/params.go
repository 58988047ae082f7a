package params

import "time"

const (
	ServerBodyLimit    = 1048576 // 1 MiB
	ServerIdleTimeout  = 30 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 10 * time.Second

	VerifyTokenKeyPrefix = "v:" // key prefix for email verification tokens

	OTPExpiration            = 10 * time.Minute // login challenge code validity
	SessionTokenLength       = 64               // random bytes per session secret
	DefaultSessionExpiration = 1 * time.Hour    // session validity unless configured
	EmailVerifyTokenTTL      = 24 * time.Hour   // verification link validity

	AuditDefaultLimit = 50  // audit log page size when none requested
	AuditMaxLimit     = 500 // hard cap on requested audit page size
	AuditTopActions   = 10  // action breakdown size in audit stats

	HealthCheckServerAddr = ":3001" // health check server address
)
