package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethvoyager95/quickswap-core/internal/chain"
	"github.com/ethvoyager95/quickswap-core/internal/script"
)

// GovCommands is the proposal-lifecycle subsystem. The Governor contract
// resolves implicitly; Propose takes each parenthesized group as one raw
// action, so the host that later executes the proposal replays them as
// script lines.
func GovCommands(backend chain.Backend) *script.Registry {
	governorArg := script.Arg{Name: "governor", Coerce: implicitContract(GovernorName), Implicit: true}
	r := script.NewRegistry()

	r.MustRegister(&script.Command{
		Name: "Propose",
		Doc:  "Submit a proposal built from raw action groups.",
		Args: []script.Arg{
			governorArg,
			{Name: "actions", Coerce: script.EachOf(script.CoerceRaw), Variadic: true},
		},
		Run: func(ctx context.Context, w *script.World, from string, args script.Args) (*script.World, error) {
			governor := contractArg(args, "governor")
			actions := args.List("actions")
			encoded := make([]any, len(actions))
			for i, a := range actions {
				encoded[i] = a.Encode()
			}
			call := chain.MethodCall{Contract: governor, Method: "propose", Args: encoded}
			receipt, err := submit(ctx, backend, call, from)
			if err != nil {
				return nil, err
			}
			id, err := returnedNumber(receipt, call, 0)
			if err != nil {
				return nil, err
			}
			desc := fmt.Sprintf("Proposed %d action(s) as proposal %s", len(actions), id.Show())
			return w.LogAction(desc, receipt), nil
		},
	})

	r.MustRegister(&script.Command{
		Name: "Queue",
		Doc:  "Queue a pending proposal.",
		Args: []script.Arg{
			governorArg,
			{Name: "proposal", Coerce: script.CoerceNumber},
		},
		Run: transitionRun(backend, "queue", "Queued"),
	})

	r.MustRegister(&script.Command{
		Name: "Execute",
		Doc:  "Execute a queued proposal.",
		Args: []script.Arg{
			governorArg,
			{Name: "proposal", Coerce: script.CoerceNumber},
		},
		Run: transitionRun(backend, "execute", "Executed"),
	})

	r.MustRegister(&script.Command{
		Name: "Cancel",
		Doc:  "Cancel a proposal that has not executed.",
		Args: []script.Arg{
			governorArg,
			{Name: "proposal", Coerce: script.CoerceNumber},
		},
		Run: transitionRun(backend, "cancel", "Canceled"),
	})

	r.MustRegister(&script.Command{
		Name: "ProposalCount",
		Doc:  "Read how many proposals have been submitted.",
		Args: []script.Arg{governorArg},
		View: func(ctx context.Context, w *script.World, from string, args script.Args) (script.Value, error) {
			governor := contractArg(args, "governor")
			call := chain.MethodCall{Contract: governor, Method: "proposalCount"}
			receipt, err := read(ctx, backend, call)
			if err != nil {
				return script.Value{}, err
			}
			count, err := returnedNumber(receipt, call, 0)
			if err != nil {
				return script.Value{}, err
			}
			return script.NewNumber(count), nil
		},
	})

	r.MustRegister(&script.Command{
		Name: "AssertProposalState",
		Doc:  "Fail unless a proposal is in the expected lifecycle state.",
		Args: []script.Arg{
			governorArg,
			{Name: "proposal", Coerce: script.CoerceNumber},
			{Name: "state", Coerce: script.CoerceString},
		},
		View: func(ctx context.Context, w *script.World, from string, args script.Args) (script.Value, error) {
			governor := contractArg(args, "governor")
			proposal := args.Number("proposal")
			call := chain.MethodCall{
				Contract: governor,
				Method:   "state",
				Args:     []any{proposal.Mantissa()},
			}
			receipt, err := read(ctx, backend, call)
			if err != nil {
				return script.Value{}, err
			}
			state, err := returnedText(receipt, call)
			if err != nil {
				return script.Value{}, err
			}
			expected := args.Text("state")
			if !strings.EqualFold(state, expected) {
				return script.Value{}, &AssertionError{
					What: fmt.Sprintf("state of proposal %s", proposal.Show()),
					Got:  state,
					Want: expected,
				}
			}
			return script.NewBool(true), nil
		},
	})

	return r
}

// transitionRun builds the shared queue/execute/cancel body: one proposal
// id in, one lifecycle transition out.
func transitionRun(backend chain.Backend, method, verb string) script.RunFunc {
	return func(ctx context.Context, w *script.World, from string, args script.Args) (*script.World, error) {
		governor := contractArg(args, "governor")
		proposal := args.Number("proposal")
		call := chain.MethodCall{
			Contract: governor,
			Method:   method,
			Args:     []any{proposal.Mantissa()},
		}
		receipt, err := submit(ctx, backend, call, from)
		if err != nil {
			return nil, err
		}
		desc := fmt.Sprintf("%s proposal %s", verb, proposal.Show())
		return w.LogAction(desc, receipt), nil
	}
}
