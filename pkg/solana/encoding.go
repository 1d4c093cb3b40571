package solana

import (
	"bytes"
	"crypto/ed25519"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/code-payments/code-faucet/pkg/solana/shortvec"
)

// Marshal encodes the transaction in the legacy wire format: the signatures
// followed by the signed message.
func (t Transaction) Marshal() []byte {
	b := appendLen(nil, len(t.Signatures))
	for _, s := range t.Signatures {
		b = append(b, s[:]...)
	}
	return append(b, t.Message.Marshal()...)
}

// Unmarshal decodes a legacy wire format transaction
func (t *Transaction) Unmarshal(b []byte) error {
	d := newDecoder(b)

	count, err := d.readLen("signatures")
	if err != nil {
		return err
	}

	t.Signatures = make([]Signature, count)
	for i := range t.Signatures {
		if err := d.readInto(t.Signatures[i][:], fmt.Sprintf("signature %d", i)); err != nil {
			return err
		}
	}

	return t.Message.Unmarshal(d.remaining())
}

// Marshal encodes the message. These are the bytes each signer signs.
func (m Message) Marshal() []byte {
	b := []byte{
		m.Header.NumSignatures,
		m.Header.NumReadonlySigned,
		m.Header.NumReadOnly,
	}

	b = appendLen(b, len(m.Accounts))
	for _, account := range m.Accounts {
		b = append(b, account...)
	}

	b = append(b, m.RecentBlockhash[:]...)

	b = appendLen(b, len(m.Instructions))
	for _, ix := range m.Instructions {
		b = append(b, ix.ProgramIndex)
		b = appendLen(b, len(ix.Accounts))
		b = append(b, ix.Accounts...)
		b = appendLen(b, len(ix.Data))
		b = append(b, ix.Data...)
	}

	return b
}

// Unmarshal decodes a legacy message. Every program and account index must
// refer to one of the message's accounts.
func (m *Message) Unmarshal(b []byte) error {
	if len(b) == 0 {
		return errors.New("empty message")
	}
	if b[0]&0x80 != 0 {
		return errors.New("versioned messages not supported")
	}

	d := newDecoder(b)

	var header [3]byte
	if err := d.readInto(header[:], "header"); err != nil {
		return err
	}
	m.Header = Header{
		NumSignatures:     header[0],
		NumReadonlySigned: header[1],
		NumReadOnly:       header[2],
	}

	accountCount, err := d.readLen("accounts")
	if err != nil {
		return err
	}
	m.Accounts = make([]ed25519.PublicKey, accountCount)
	for i := range m.Accounts {
		if m.Accounts[i], err = d.readBytes(ed25519.PublicKeySize, fmt.Sprintf("account %d", i)); err != nil {
			return err
		}
	}

	if err := d.readInto(m.RecentBlockhash[:], "recent blockhash"); err != nil {
		return err
	}

	instructionCount, err := d.readLen("instructions")
	if err != nil {
		return err
	}
	m.Instructions = make([]CompiledInstruction, instructionCount)
	for i := range m.Instructions {
		if err := d.readInstruction(&m.Instructions[i], len(m.Accounts)); err != nil {
			return errors.Wrapf(err, "instruction %d", i)
		}
	}

	if d.r.Len() > 0 {
		return errors.Errorf("%d trailing bytes after message", d.r.Len())
	}

	return nil
}

func appendLen(b []byte, n int) []byte {
	// Lengths are bounded well below shortvec.MaxLen by MaxTransactionSize
	b, _ = shortvec.AppendLen(b, n)
	return b
}

type decoder struct {
	b []byte
	r *bytes.Reader
}

func newDecoder(b []byte) *decoder {
	return &decoder{b: b, r: bytes.NewReader(b)}
}

func (d *decoder) remaining() []byte {
	return d.b[len(d.b)-d.r.Len():]
}

func (d *decoder) readLen(what string) (int, error) {
	n, err := shortvec.DecodeLen(d.r)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to read %s length", what)
	}
	return n, nil
}

func (d *decoder) readInto(dst []byte, what string) error {
	if _, err := io.ReadFull(d.r, dst); err != nil {
		return errors.Wrapf(err, "failed to read %s", what)
	}
	return nil
}

func (d *decoder) readBytes(n int, what string) ([]byte, error) {
	b := make([]byte, n)
	if err := d.readInto(b, what); err != nil {
		return nil, err
	}
	return b, nil
}

func (d *decoder) readInstruction(ix *CompiledInstruction, accountCount int) error {
	var err error
	if ix.ProgramIndex, err = d.r.ReadByte(); err != nil {
		return errors.Wrap(err, "failed to read program index")
	}
	if int(ix.ProgramIndex) >= accountCount {
		return errors.Errorf("program index out of range: %d", ix.ProgramIndex)
	}

	n, err := d.readLen("account indexes")
	if err != nil {
		return err
	}
	if ix.Accounts, err = d.readBytes(n, "account indexes"); err != nil {
		return err
	}
	for _, index := range ix.Accounts {
		if int(index) >= accountCount {
			return errors.Errorf("account index out of range: %d", index)
		}
	}

	if n, err = d.readLen("data"); err != nil {
		return err
	}
	ix.Data, err = d.readBytes(n, "data")
	return err
}
