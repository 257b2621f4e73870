package devnet

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethvoyager95/quickswap-core/internal/chain"
)

const (
	gasPropose   = 82000
	gasPerAction = 1100
	gasQueue     = 45200
	gasExecute   = 61700
	gasCancel    = 33400
)

// Proposal lifecycle states.
const (
	StatePending  = "Pending"
	StateQueued   = "Queued"
	StateExecuted = "Executed"
	StateCanceled = "Canceled"
)

// governor holds a linear proposal lifecycle: propose, queue, execute, with
// cancel allowed before execution. Proposal ids start at 1.
type governor struct {
	proposals []*proposal
}

type proposal struct {
	id       int64
	proposer string
	actions  []string
	state    string
}

func newGovernor() *governor {
	return &governor{}
}

func (g *governor) invoke(method string, args []any, from string) outcome {
	switch method {
	case "propose":
		actions := make([]string, len(args))
		for i, a := range args {
			actions[i] = fmt.Sprintf("%v", a)
		}
		p := &proposal{
			id:       int64(len(g.proposals) + 1),
			proposer: from,
			actions:  actions,
			state:    StatePending,
		}
		g.proposals = append(g.proposals, p)
		return outcome{
			gas: gasPropose + gasPerAction*uint64(len(actions)),
			events: []chain.Event{{
				Name: "ProposalCreated",
				Data: map[string]string{
					"id":       strconv.FormatInt(p.id, 10),
					"proposer": from,
					"actions":  strconv.Itoa(len(actions)),
				},
			}},
			ret: []any{big.NewInt(p.id)},
		}

	case "queue":
		p, out := g.transition(args, StatePending, StateQueued)
		if out.err != "" {
			return out
		}
		return outcome{gas: gasQueue, events: []chain.Event{proposalEvent("ProposalQueued", p)}}

	case "execute":
		p, out := g.transition(args, StateQueued, StateExecuted)
		if out.err != "" {
			return out
		}
		return outcome{gas: gasExecute, events: []chain.Event{proposalEvent("ProposalExecuted", p)}}

	case "cancel":
		p, ok := g.lookup(args)
		if !ok {
			return reject("cancel: unknown proposal")
		}
		if p.state == StateExecuted {
			return reject("cancel: proposal %d already executed", p.id)
		}
		p.state = StateCanceled
		return outcome{gas: gasCancel, events: []chain.Event{proposalEvent("ProposalCanceled", p)}}

	case "proposalCount", "state":
		return reject("%s is read-only, use a call", method)
	}
	return reject("unknown method %s", method)
}

func (g *governor) view(method string, args []any) outcome {
	switch method {
	case "proposalCount":
		return outcome{ret: []any{big.NewInt(int64(len(g.proposals)))}}
	case "state":
		p, ok := g.lookup(args)
		if !ok {
			return reject("state: unknown proposal")
		}
		return outcome{ret: []any{p.state}}
	case "propose", "queue", "execute", "cancel":
		return reject("%s requires a transaction", method)
	}
	return reject("unknown method %s", method)
}

func (g *governor) transition(args []any, fromState, toState string) (*proposal, outcome) {
	p, ok := g.lookup(args)
	if !ok {
		return nil, reject("unknown proposal")
	}
	if p.state != fromState {
		return nil, reject("proposal %d is %s, want %s", p.id, p.state, fromState)
	}
	p.state = toState
	return p, outcome{}
}

func (g *governor) lookup(args []any) (*proposal, bool) {
	id, ok := argAmount(args, 0)
	if !ok {
		return nil, false
	}
	n := id.Int64()
	if n < 1 || n > int64(len(g.proposals)) {
		return nil, false
	}
	return g.proposals[n-1], true
}

func proposalEvent(name string, p *proposal) chain.Event {
	return chain.Event{
		Name: name,
		Data: map[string]string{"id": strconv.FormatInt(p.id, 10), "state": p.state},
	}
}
