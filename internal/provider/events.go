package provider

import (
	"math/big"

	evbus "github.com/asaskevich/EventBus"
	"github.com/ethereum/go-ethereum/common"
)

// Notification topics.
const (
	EventAccountsChanged = "accountsChanged"
	EventChainChanged    = "chainChanged"
)

// Notifier is implemented by providers that push account and chain changes.
type Notifier interface {
	OnAccountsChanged(fn func(accounts []common.Address)) error
	OnChainChanged(fn func(chainID *big.Int)) error
}

// Events is an in-process Notifier. Handlers run synchronously on the
// publishing goroutine, in subscription order.
type Events struct {
	bus evbus.Bus
}

// NewEvents creates an empty event hub.
func NewEvents() *Events {
	return &Events{bus: evbus.New()}
}

// OnAccountsChanged implements Notifier.
func (e *Events) OnAccountsChanged(fn func(accounts []common.Address)) error {
	return e.bus.Subscribe(EventAccountsChanged, fn)
}

// OnChainChanged implements Notifier.
func (e *Events) OnChainChanged(fn func(chainID *big.Int)) error {
	return e.bus.Subscribe(EventChainChanged, fn)
}

// EmitAccountsChanged publishes the new account list.
func (e *Events) EmitAccountsChanged(accounts []common.Address) {
	e.bus.Publish(EventAccountsChanged, accounts)
}

// EmitChainChanged publishes the new chain id.
func (e *Events) EmitChainChanged(chainID *big.Int) {
	e.bus.Publish(EventChainChanged, new(big.Int).Set(chainID))
}
