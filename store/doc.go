// Package store holds agent conversation transcripts.
//
// [ItemStore] is the ordered, append-only list of items an agent sends as
// input on each turn: the user message, every output item the model
// produced, and the function_call_output items answering its calls.
//
// Transcripts can be persisted through the [Adapter] interface. The default
// [MemoryAdapter] keeps them in process:
//
//	transcript := store.NewItemStore(nil)
//	transcript.Append(ai.NewUserMessage("What is 2+2?"))
//
//	if err := transcript.Sync(ctx, runID); err != nil {
//	    log.Fatal(err)
//	}
package store
