// Copyright 2026 George Fraser
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sql

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
)

// Context is the context passed through every stage of analysis. It
// carries cancellation, a tracer for instrumenting the stages and a
// structured logger.
type Context struct {
	context.Context
	tracer opentracing.Tracer
	logger *logrus.Entry
}

// ContextOption is a function to configure the context.
type ContextOption func(*Context)

// WithTracer returns an option that sets the given tracer in the
// context.
func WithTracer(t opentracing.Tracer) ContextOption {
	return func(ctx *Context) {
		ctx.tracer = t
	}
}

// WithLogger returns an option that sets the given logger entry in the
// context.
func WithLogger(e *logrus.Entry) ContextOption {
	return func(ctx *Context) {
		ctx.logger = e
	}
}

// NewContext creates a new analysis context with the given parent
// context and options.
func NewContext(ctx context.Context, opts ...ContextOption) *Context {
	c := &Context{Context: ctx}
	for _, opt := range opts {
		opt(c)
	}

	if c.tracer == nil {
		c.tracer = opentracing.NoopTracer{}
	}

	if c.logger == nil {
		c.logger = logrus.NewEntry(logrus.StandardLogger())
	}

	return c
}

// NewEmptyContext returns a default context with no values.
func NewEmptyContext() *Context { return NewContext(context.TODO()) }

// Span creates a new tracing span with the given operation name. It
// returns the span and a new context with the span attached, which
// should be used in place of its parent.
func (c *Context) Span(
	opName string,
	opts ...opentracing.StartSpanOption,
) (opentracing.Span, *Context) {
	parentSpan := opentracing.SpanFromContext(c.Context)
	if parentSpan != nil {
		opts = append(opts, opentracing.ChildOf(parentSpan.Context()))
	}
	span := c.tracer.StartSpan(opName, opts...)
	ctx := opentracing.ContextWithSpan(c.Context, span)

	return span, &Context{Context: ctx, tracer: c.tracer, logger: c.logger}
}

// Logger returns the logger entry attached to the context.
func (c *Context) Logger() *logrus.Entry { return c.logger }

// Warn logs a warning with the given fields.
func (c *Context) Warn(msg string, fields logrus.Fields) {
	c.logger.WithFields(fields).Warn(msg)
}
