package model

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gradlens/internal/core/errors"
	"gradlens/internal/shared/observability"
	"gradlens/internal/shared/util"
)

// Fetcher issues typed queries against a tooling session. One request per
// call: no retries, no caching. Throttling is optional via the limiter.
type Fetcher struct {
	limiter *util.Limiter
}

func NewFetcher(limiter *util.Limiter) *Fetcher {
	return &Fetcher{limiter: limiter}
}

// Fetch performs one model query and maps the transport's error surface onto
// the Outcome contract: service-side absence becomes a failed outcome with a
// not-found cause, transport faults become a failed outcome with the fault as
// cause. Fetch itself never returns a Go error.
func (f *Fetcher) Fetch(ctx context.Context, session Session, handle Handle, kind Kind, params *Params) Outcome[any] {
	ctx, span := observability.Tracer.Start(ctx, "model.Fetch", trace.WithAttributes(
		attribute.String("model.kind", string(kind)),
		attribute.String("module.path", handle.ProjectPath),
	))
	defer span.End()

	if session == nil {
		return Fail[any](errors.New(errors.CodeConnectionFailure, "no tooling session"))
	}
	if err := f.limiter.Wait(ctx, 1); err != nil {
		return FailNote[any](err, fmt.Sprintf("interrupted waiting to fetch %s for %s", kind, handle.ProjectPath))
	}

	start := time.Now()
	value, err := session.Fetch(ctx, handle, kind, params)
	observability.ModelFetchDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())

	if err != nil {
		if stderrors.Is(err, ErrNoModel) {
			observability.ModelFetchTotal.WithLabelValues(string(kind), "not_found").Inc()
			return FailNote[any](
				errors.Wrap(err, errors.CodeModelNotFound, string(kind)),
				fmt.Sprintf("no %s model for %s", kind, handle.ProjectPath),
			)
		}
		observability.ModelFetchTotal.WithLabelValues(string(kind), "error").Inc()
		return FailNote[any](
			errors.Wrap(err, errors.CodeModelFetch, string(kind)),
			fmt.Sprintf("fetch %s for %s", kind, handle.ProjectPath),
		)
	}

	observability.ModelFetchTotal.WithLabelValues(string(kind), "ok").Inc()
	return Ok(value)
}

// fetchAs narrows a raw fetch to a concrete model type.
func fetchAs[M any](ctx context.Context, f *Fetcher, session Session, handle Handle, kind Kind, params *Params) Outcome[M] {
	out := f.Fetch(ctx, session, handle, kind, params)
	if !out.OK() {
		return ForwardErr[any, M](out)
	}
	typed, ok := out.Value().(M)
	if !ok {
		return FailNote[M](
			errors.Newf(errors.CodeModelFetch, "unexpected model type %T for kind %s", out.Value(), kind),
			fmt.Sprintf("decode %s for %s", kind, handle.ProjectPath),
		)
	}
	return Ok(typed)
}

func (f *Fetcher) GradleBuild(ctx context.Context, session Session, root Handle) Outcome[*GradleBuild] {
	return fetchAs[*GradleBuild](ctx, f, session, root, KindGradleBuild, nil)
}

func (f *Fetcher) AndroidProject(ctx context.Context, session Session, handle Handle) Outcome[*AndroidProject] {
	return fetchAs[*AndroidProject](ctx, f, session, handle, KindAndroidProject, nil)
}

func (f *Fetcher) BasicAndroidProject(ctx context.Context, session Session, handle Handle) Outcome[*BasicAndroidProject] {
	return fetchAs[*BasicAndroidProject](ctx, f, session, handle, KindBasicAndroidProject, nil)
}

func (f *Fetcher) AndroidDsl(ctx context.Context, session Session, handle Handle) Outcome[*AndroidDsl] {
	return fetchAs[*AndroidDsl](ctx, f, session, handle, KindAndroidDsl, nil)
}

func (f *Fetcher) VariantDependencies(ctx context.Context, session Session, handle Handle, variantName string, artifactFlags []string) Outcome[*VariantDependencies] {
	params := &Params{VariantName: variantName, ArtifactFlags: artifactFlags}
	return fetchAs[*VariantDependencies](ctx, f, session, handle, KindVariantDependencies, params)
}

func (f *Fetcher) GradleModule(ctx context.Context, session Session, handle Handle) Outcome[*GradleModule] {
	return fetchAs[*GradleModule](ctx, f, session, handle, KindGradleModule, nil)
}
