// Package anthropic posts raw Open Responses requests through the Anthropic
// SDK request pipeline.
//
// The pipeline adds the anthropic-version header the Anthropic gateway
// expects; authentication is supplied by the caller as an x-api-key header.
// Unlike [anthropic.NewClient], the client here never reads ANTHROPIC_*
// environment variables.
package anthropic
