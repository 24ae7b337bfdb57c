// Package harness executes action handlers against a synthetic store context
// and verifies the mutations and actions they issue.
//
// A handler receives a *Context exposing Commit, Dispatch, State, Getters,
// RootState and RootGetters, plus the configured payload:
//
//	func addItem(ctx *harness.Context, id int) error {
//	    ctx.Dispatch("inventory/reserve", id)
//	    ctx.Commit("ADD_ITEM", id)
//	    return nil
//	}
//
//	harness.ExecuteAction(t, harness.Config{
//	    Action:            addItem,
//	    Payload:           7,
//	    ExpectedActions:   []harness.Record{{Type: "inventory/reserve", Payload: 7}},
//	    ExpectedMutations: []harness.Record{{Type: "ADD_ITEM", Payload: 7}},
//	})
//
// Mutations and actions are checked as two independent ordered sequences.
// A payload is compared only when the handler passed one.
//
// # Scenario Format
//
// Runs can also be described in YAML and bound to handlers by name:
//
//	name: add_item
//	description: "Reserves stock then adds the item"
//	action: cart/addItem
//	payload: 7
//	expect:
//	  actions:
//	    - type: inventory/reserve
//	      payload: 7
//	  mutations:
//	    - type: ADD_ITEM
//
// A scenario expecting a throw sets expect.exception to a fault kind such as
// BusinessException, and optionally expect.errors to the exact error list.
//
// LoadScenario validates the file against the CUE schema printed by
// "actioncheck schema" before decoding it strictly.
//
// # Deterministic Traces
//
// Every commit and dispatch is stamped with a sequence number. With a fixed
// IDGenerator the trace of a run is byte-stable and can be compared against a
// golden file with AssertGolden.
package harness
