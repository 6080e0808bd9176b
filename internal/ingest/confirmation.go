package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/fernet/fernet-go"
)

// Confirmation is written next to every successfully processed file.
type Confirmation struct {
	CorrelationID string    `json:"correlationId"`
	FileName      string    `json:"fileName"`
	SHA256        string    `json:"sha256"`
	Records       int       `json:"records"`
	Inserted      int       `json:"inserted"`
	Duplicates    int       `json:"duplicates"`
	ProcessedAt   time.Time `json:"processedAt"`
	Token         string    `json:"token,omitempty"`
}

func newConfirmation(claim *Claim, data []byte, result Result, now time.Time) *Confirmation {
	sum := sha256.Sum256(data)
	return &Confirmation{
		CorrelationID: claim.CorrelationID,
		FileName:      claim.Name,
		SHA256:        hex.EncodeToString(sum[:]),
		Records:       result.Records,
		Inserted:      result.Inserted,
		Duplicates:    result.Duplicates,
		ProcessedAt:   now.UTC(),
	}
}

// ErrInvalidToken is returned when a confirmation token does not verify.
var ErrInvalidToken = errors.New("invalid confirmation token")

// Sealer signs confirmations with a fernet key so that a confirmation can be
// checked against the file it claims to confirm.
type Sealer struct {
	key *fernet.Key
}

// NewSealer decodes a base64 fernet key.
func NewSealer(encodedKey string) (*Sealer, error) {
	key, err := fernet.DecodeKey(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode confirmation key: %w", err)
	}
	return &Sealer{key: key}, nil
}

func tokenMessage(c *Confirmation) []byte {
	return []byte(c.CorrelationID + ":" + c.SHA256)
}

// Seal sets the confirmation token over its correlation id and checksum.
func (s *Sealer) Seal(c *Confirmation) error {
	tok, err := fernet.EncryptAndSign(tokenMessage(c), s.key)
	if err != nil {
		return fmt.Errorf("failed to seal confirmation: %w", err)
	}
	c.Token = string(tok)
	return nil
}

// Verify checks that the token was produced by this key for the confirmation's
// correlation id and checksum.
func (s *Sealer) Verify(c *Confirmation) error {
	msg := fernet.VerifyAndDecrypt([]byte(c.Token), 0, []*fernet.Key{s.key})
	if msg == nil || string(msg) != string(tokenMessage(c)) {
		return ErrInvalidToken
	}
	return nil
}
