package notes

import (
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/cryptox"
)

// MinPasswordLength is the shortest accepted note password.
const MinPasswordLength = 4

// Seal locks n with password: the text is encrypted under an argon2id key
// derived with a fresh salt and only the key's verifier is kept.
func Seal(n models.Note, password []byte) (models.Note, error) {
	if n.Locked() {
		return models.Note{}, ErrNoteLocked
	}
	if len(password) < MinPasswordLength {
		return models.Note{}, ErrPasswordTooShort
	}

	salt := cryptox.NewSalt()
	key := cryptox.DeriveMasterKey(password, salt)
	defer common.WipeByteArray(key)

	sealed, nonce, err := cryptox.EncryptEntry(n.Text, key)
	if err != nil {
		return models.Note{}, fmt.Errorf("seal note: %w", err)
	}

	out := n.Clone()
	out.Text = ""
	out.Lock = &models.Lock{
		Salt:     salt,
		Verifier: cryptox.MakeVerifier(key),
		Sealed:   sealed,
		Nonce:    nonce,
	}
	return out, nil
}

// Open verifies password against a locked note and returns the note with its
// text restored and the lock removed.
func Open(n models.Note, password []byte) (models.Note, error) {
	if !n.Locked() {
		return models.Note{}, ErrNoteNotLocked
	}

	key, ok := cryptox.CheckPassword(password, n.Lock.Salt, n.Lock.Verifier)
	if !ok {
		return models.Note{}, ErrIncorrectPassword
	}
	defer common.WipeByteArray(key)

	var text string
	if err := cryptox.DecryptEntry(n.Lock.Sealed, n.Lock.Nonce, key, &text); err != nil {
		return models.Note{}, fmt.Errorf("open note: %w", err)
	}

	out := n.Clone()
	out.Text = text
	out.Lock = nil
	return out, nil
}
