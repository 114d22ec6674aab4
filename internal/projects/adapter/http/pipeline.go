package http

import (
	apperrors "projects-api/internal/shared/errors"

	"github.com/gofiber/fiber/v2"
)

// Verdict is what an Interceptor decides about a request: continue to the
// next stage, or stop with a terminal response.
type Verdict struct {
	halted bool
	status int
	body   interface{}
}

// Continue lets the request proceed to the next stage.
func Continue() Verdict {
	return Verdict{}
}

// Reject stops the pipeline and answers with status and a JSON body. A nil
// body sends the status alone.
func Reject(status int, body interface{}) Verdict {
	return Verdict{halted: true, status: status, body: body}
}

// RejectWith stops the pipeline with the status and body of an AppError.
func RejectWith(err *apperrors.AppError) Verdict {
	return Reject(err.HTTPCode, err.Body())
}

// Halted reports whether the verdict ends the request.
func (v Verdict) Halted() bool {
	return v.halted
}

func (v Verdict) respond(c *fiber.Ctx) error {
	if v.body == nil {
		return c.SendStatus(v.status)
	}
	return c.Status(v.status).JSON(v.body)
}

// Interceptor inspects a request ahead of its handler. It may attach values to
// the request (locals, user context) before continuing.
type Interceptor func(c *fiber.Ctx) Verdict

// Pipeline is an ordered list of interceptors.
type Pipeline struct {
	interceptors []Interceptor
}

// NewPipeline builds a pipeline that runs interceptors in the given order.
func NewPipeline(interceptors ...Interceptor) *Pipeline {
	return &Pipeline{interceptors: interceptors}
}

// Run applies each interceptor until one halts. The returned verdict is the
// halting one, or Continue when every interceptor passed.
func (p *Pipeline) Run(c *fiber.Ctx) Verdict {
	for _, intercept := range p.interceptors {
		if v := intercept(c); v.Halted() {
			return v
		}
	}
	return Continue()
}

// Middleware adapts the pipeline to Fiber: a halting verdict is written as the
// response, otherwise the next matching route runs.
func (p *Pipeline) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if v := p.Run(c); v.Halted() {
			return v.respond(c)
		}
		return c.Next()
	}
}
