// Package mfa models the one-time-passcode login challenge attached to a user
// record. The challenge is a small state machine: no challenge pending, or
// exactly one Pending{code hash, expiry}. Issuing a new challenge always
// replaces the previous one; expiry is detected at verification time.
package mfa

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/lexikon-app/lexikon/model"
	"github.com/lexikon-app/lexikon/params"
	"golang.org/x/crypto/bcrypt"
)

// Pending is a challenge awaiting verification.
type Pending struct {
	CodeHash  string
	ExpiresAt time.Time
}

func (p *Pending) IsExpired(now time.Time) bool {
	return p.ExpiresAt.Before(now)
}

// FromUser reads the challenge state off the user row. Returns nil when no
// challenge is pending. A half-set pair is treated as no challenge.
func FromUser(u *model.User) *Pending {
	if u.OneTimePassword == nil || u.OTPExpiration == nil {
		return nil
	}
	return &Pending{
		CodeHash:  *u.OneTimePassword,
		ExpiresAt: *u.OTPExpiration,
	}
}

// Apply writes the challenge state onto the user row; nil clears both fields.
func Apply(u *model.User, p *Pending) {
	if p == nil {
		u.OneTimePassword = nil
		u.OTPExpiration = nil
		return
	}
	hash := p.CodeHash
	expiry := p.ExpiresAt
	u.OneTimePassword = &hash
	u.OTPExpiration = &expiry
}

// GenerateCode produces a 6-digit code uniformly random in [100000, 999999].
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// Issue creates a fresh pending challenge and returns it together with the
// plaintext code to dispatch. Only the hash is ever persisted.
func Issue(now time.Time) (*Pending, string, error) {
	code, err := GenerateCode()
	if err != nil {
		return nil, "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	return &Pending{
		CodeHash:  string(hash),
		ExpiresAt: now.Add(params.OTPExpiration),
	}, code, nil
}

type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeNoChallenge
	OutcomeExpired
	OutcomeWrongCode
)

// Verify checks a submitted code against the pending challenge. An expired
// challenge reports OutcomeExpired regardless of whether the code matches;
// the caller clears the challenge on OK and Expired, keeps it on WrongCode.
func Verify(p *Pending, code string, now time.Time) Outcome {
	if p == nil {
		return OutcomeNoChallenge
	}
	if p.IsExpired(now) {
		return OutcomeExpired
	}
	if bcrypt.CompareHashAndPassword([]byte(p.CodeHash), []byte(code)) != nil {
		return OutcomeWrongCode
	}
	return OutcomeOK
}
