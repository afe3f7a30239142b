package services

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const DefaultSessionTTL = 24 * time.Hour

// Authenticator checks the shared admin password and issues stateless session tokens
// of the form "<unix millis>:<nonce>:<hex HMAC-SHA256 of the first two parts>".
type Authenticator struct {
	PasswordHash string
	Secret       []byte
	TTL          time.Duration
	Now          func() time.Time
}

func (a Authenticator) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a Authenticator) ttl() time.Duration {
	if a.TTL > 0 && a.TTL < DefaultSessionTTL {
		return a.TTL
	}
	return DefaultSessionTTL
}

// VerifyPassword fails closed with a 500 when no hash is configured.
func (a Authenticator) VerifyPassword(candidate string) error {
	if strings.TrimSpace(a.PasswordHash) == "" {
		return ErrInternal("Admin password is not configured")
	}
	if !verifyHash(candidate, a.PasswordHash) {
		return ErrUnauthorized("Invalid password")
	}
	return nil
}

func (a Authenticator) Issue() (string, error) {
	if len(a.Secret) == 0 {
		return "", ErrInternal("Admin session secret is not configured")
	}
	payload := strconv.FormatInt(a.now().UnixMilli(), 10) + ":" + uuid.NewString()
	sig, err := a.sign(payload)
	if err != nil {
		return "", WrapError(err, "sign session")
	}
	return payload + ":" + sig, nil
}

// Verify reports whether token was issued with this secret and is still within its lifetime.
func (a Authenticator) Verify(token string) bool {
	if len(a.Secret) == 0 {
		return false
	}
	parts := strings.Split(token, ":")
	if len(parts) != 3 {
		return false
	}
	expected, err := a.sign(parts[0] + ":" + parts[1])
	if err != nil {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(expected), []byte(parts[2])) != 1 {
		return false
	}
	millis, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return false
	}
	return a.now().Sub(time.UnixMilli(millis)) <= a.ttl()
}

func (a Authenticator) sign(payload string) (string, error) {
	sig, err := jwt.SigningMethodHS256.Sign(payload, a.Secret)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sig), nil
}

// HashPassword produces an argon2id hash suitable for ADMIN_PASSWORD_HASH.
func HashPassword(raw string) (string, error) {
	return hashArgon2id(raw)
}

func verifyHash(raw, hashed string) bool {
	if strings.HasPrefix(hashed, "$argon2") {
		return verifyArgon2id(raw, hashed)
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(raw)) == nil
}

type argon2Params struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	saltLength  int
	keyLength   int
}

func hashArgon2id(raw string) (string, error) {
	params := argon2Params{
		memory:      65536,
		iterations:  3,
		parallelism: 1,
		saltLength:  16,
		keyLength:   32,
	}
	salt := make([]byte, params.saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(raw), salt, params.iterations, params.memory, params.parallelism, uint32(params.keyLength))
	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Key := base64.RawStdEncoding.EncodeToString(key)
	return "$argon2id$v=19$m=" + strconv.FormatUint(uint64(params.memory), 10) +
		",t=" + strconv.FormatUint(uint64(params.iterations), 10) +
		",p=" + strconv.FormatUint(uint64(params.parallelism), 10) +
		"$" + b64Salt + "$" + b64Key, nil
}

func verifyArgon2id(raw, encoded string) bool {
	params, salt, hash, err := decodeArgon2id(encoded)
	if err != nil {
		return false
	}
	key := argon2.IDKey([]byte(raw), salt, params.iterations, params.memory, params.parallelism, uint32(params.keyLength))
	return subtle.ConstantTimeCompare(hash, key) == 1
}

func decodeArgon2id(encoded string) (argon2Params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return argon2Params{}, nil, nil, errors.New("invalid hash format")
	}
	var params argon2Params
	for _, kv := range strings.Split(parts[3], ",") {
		pair := strings.SplitN(kv, "=", 2)
		if len(pair) != 2 {
			continue
		}
		switch pair[0] {
		case "m":
			value, _ := strconv.ParseUint(pair[1], 10, 32)
			params.memory = uint32(value)
		case "t":
			value, _ := strconv.ParseUint(pair[1], 10, 32)
			params.iterations = uint32(value)
		case "p":
			value, _ := strconv.ParseUint(pair[1], 10, 8)
			params.parallelism = uint8(value)
		}
	}
	if params.memory == 0 || params.iterations == 0 || params.parallelism == 0 {
		return argon2Params{}, nil, nil, errors.New("invalid hash parameters")
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return argon2Params{}, nil, nil, err
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return argon2Params{}, nil, nil, err
	}
	params.saltLength = len(salt)
	params.keyLength = len(hash)
	return params, salt, hash, nil
}
