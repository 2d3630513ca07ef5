package state

import (
	solanago "github.com/gagliardetto/solana-go"
)

// Record pairs an account with the address it lives at. Operations receive
// addressed records so relation checks can compare against stored references.
type Record[T any] struct {
	Address solanago.PublicKey
	Data    *T
}

func NewRecord[T any](address solanago.PublicKey, data *T) Record[T] {
	return Record[T]{Address: address, Data: data}
}
