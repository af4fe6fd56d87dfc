// Package answer implements the caller-facing question pipeline: normalize
// the question, resolve a schema snapshot through the cache, compose the
// prompt, call the language model, and post-process the response.
//
// Answer never returns an error. Every failure below this boundary is
// converted into displayable text: connection and schema failures
// short-circuit with a one-line message before any prompt is built, and
// model failures render a troubleshooting payload.
package answer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/askdb-io/askdb/internal/cache"
	"github.com/askdb-io/askdb/internal/errors"
	"github.com/askdb-io/askdb/internal/insight"
	"github.com/askdb-io/askdb/internal/llm"
	"github.com/askdb-io/askdb/internal/logging"
	"github.com/askdb-io/askdb/internal/preprocess"
	"github.com/askdb-io/askdb/internal/prompt"
	"github.com/askdb-io/askdb/internal/rewrite"
	"github.com/askdb-io/askdb/internal/schema"
	"github.com/askdb-io/askdb/internal/store"
)

const defaultAgentTimeout = 60 * time.Second

const schemaUnavailableMessage = "Failed to retrieve database schema. " +
	"Check database connection and initialization."

// Options bounds the pipeline
type Options struct {
	// SampleRows is the number of representative rows embedded per table.
	// Zero falls back to the builder default.
	SampleRows int

	// SchemaCapacity bounds the snapshot cache. Zero falls back to the
	// cache default.
	SchemaCapacity int

	// AgentTimeout is the hard cutoff for a single model call. Zero falls
	// back to 60 seconds.
	AgentTimeout time.Duration
}

// Answerer wires the store, the schema cache, and the model behind the
// single Answer entry point. Safe for concurrent use.
type Answerer struct {
	agent   llm.Agent
	schemas *cache.SnapshotCache
	timeout time.Duration
}

// New creates an Answerer over an open store and a configured model agent
func New(st *store.Store, agent llm.Agent, opts Options) *Answerer {
	if opts.AgentTimeout <= 0 {
		opts.AgentTimeout = defaultAgentTimeout
	}

	builder := schema.NewBuilder(st, opts.SampleRows)

	build := func(ctx context.Context) (*schema.Snapshot, error) {
		// A dead connection must surface as unavailable, not as a partial
		// introspection failure
		if err := st.Ping(ctx); err != nil {
			return nil, err
		}

		return builder.Build(ctx)
	}

	return &Answerer{
		agent:   agent,
		schemas: cache.NewSnapshotCache(build, opts.SchemaCapacity, 0),
		timeout: opts.AgentTimeout,
	}
}

// Answer runs the full pipeline for one question and returns displayable
// markdown. It is synchronous and total: failures are rendered into the
// returned text rather than propagated.
func (a *Answerer) Answer(ctx context.Context, question string) string {
	log := logging.WithField("request_id", uuid.New().String())

	question = preprocess.Normalize(question)

	snapshot, err := a.schemas.Get(ctx)
	if err != nil {
		if errors.IsType(err, errors.ErrTypeStoreUnavailable) {
			log.WithError(err).Error("Database connection failed")

			return errors.GetMessage(err)
		}

		log.WithError(err).Error("Failed to retrieve database schema")

		return schemaUnavailableMessage
	}

	if snapshot.Len() == 0 {
		log.Warn("Schema snapshot contains no tables")

		return schemaUnavailableMessage
	}

	stats := a.schemas.Stats()
	log.WithFields(map[string]interface{}{
		"tables":       snapshot.Len(),
		"cache_hits":   stats.Hits,
		"cache_misses": stats.Misses,
	}).Debug("Schema snapshot resolved")

	composed := prompt.Compose(snapshot, question)

	start := time.Now()

	reply, err := a.runAgent(ctx, composed)
	if err != nil {
		log.WithError(err).Error("Error in SQL agent")

		return renderFailure(err)
	}

	log.Infof("Query processed in %.2f seconds", time.Since(start).Seconds())

	if sqlText, ok := rewrite.Extract(reply); ok {
		result := rewrite.Rewrite(sqlText)
		if result.Changed() {
			reply = rewrite.Splice(reply, result.Rewritten, result.Applied)
		}
	}

	return insight.Annotate(reply)
}

// runAgent calls the model under the configured hard timeout. Once the
// deadline passes the in-flight call is abandoned; nothing is retried.
func (a *Answerer) runAgent(ctx context.Context, composed string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	reply, err := a.agent.Run(ctx, composed)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", errors.NewAgentError(errors.ErrTypeAgentTimeout, err,
				fmt.Sprintf("model call timed out after %v", a.timeout))
		}

		return "", errors.NewAgentError(errors.ErrTypeAgent, err, err.Error())
	}

	return reply, nil
}

// renderFailure renders the troubleshooting payload shown when the model
// call fails
func renderFailure(err error) string {
	var b strings.Builder

	b.WriteString("## Error Processing Query\n\n")
	fmt.Fprintf(&b, "I encountered an issue while processing your question: `%s`\n\n",
		errors.GetMessage(err))
	b.WriteString("### Troubleshooting suggestions:\n")

	for i, suggestion := range errors.GetSuggestions(err) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, suggestion)
	}

	b.WriteString("\nIf the problem persists, please contact technical support.")

	return b.String()
}
