package query

import (
	"strconv"

	"github.com/bbcarchdev/patchwork/internal/domain/query/mode"
	"github.com/bbcarchdev/patchwork/internal/domain/request"
)

// Builder turns request parameters into a Query.
type Builder struct {
	threshold int
}

// NewBuilder creates a builder whose unset score threshold resolves to
// threshold.
func NewBuilder(threshold int) Builder {
	return Builder{threshold: threshold}
}

// Threshold returns the default score threshold.
func (b Builder) Threshold() int { return b.threshold }

// Build reads the recognized parameters of req into q. Each non-empty filter
// marks q explicit and is echoed into the canonical URI; absent parameters
// leave fields already set on q alone. defaultClass applies when no class
// parameter is given.
func (b Builder) Build(req *request.Request, q *Query, defaultClass string) {
	c := req.Canonical

	if t := req.Param("q"); t != "" {
		q.Explicit = true
		c.SetParam("q", t)
		q.Text = t
		q.Lang = req.Param("lang")
	}
	if t := req.Param("collection"); t != "" {
		q.Explicit = true
		c.SetParam("collection", t)
		q.Collection = t
	}
	if t := req.Param("class"); t != "" {
		q.Explicit = true
		c.SetParam("class", t)
		q.Class = t
	} else if defaultClass != "" {
		q.Class = defaultClass
	}

	q.Offset = req.Offset
	if req.Offset != 0 {
		c.SetParamInt("offset", req.Offset)
	}
	q.Limit = req.Limit
	if req.Limit != req.DefaultLimit {
		c.SetParamInt("limit", req.Limit)
	}

	if t := req.Param("media"); t != "" {
		q.Explicit = true
		c.SetParam("media", t)
		q.Media = t
	}
	if n := req.ParamInt("duration-min"); n != 0 {
		q.Explicit = true
		c.SetParamInt("duration-min", n)
		q.DurationMin = n
	}
	if n := req.ParamInt("duration-max"); n != 0 {
		q.Explicit = true
		c.SetParamInt("duration-max", n)
		q.DurationMax = n
	}
	if about := req.ParamMulti("about"); len(about) > 0 {
		q.Explicit = true
		c.SetParamMulti("about", about)
		q.About = about
	}
	if audience := req.ParamMulti("for"); len(audience) > 0 {
		q.Explicit = true
		c.SetParamMulti("for", audience)
		q.Audience = audience
	}
	if t := req.Param("type"); t != "" {
		q.Explicit = true
		q.Type = t
		if t != Any {
			c.SetParam("type", t)
		}
	}
	if t := req.Param("mode"); t != "" {
		q.Explicit = true
		if m, ok := mode.Parse(t); ok {
			q.Mode = m
			c.SetParam("mode", string(m))
		}
	}
	if t := req.Param("score"); t != "" {
		q.Explicit = true
		q.Score = request.Atoi(t)
		c.SetParam("score", t)
	}

	q.DeriveSubject(req.Root)
	q.ResolveScore(b.threshold)
}

// String is used in debug logs.
func (q *Query) String() string {
	return "class=" + strconv.Quote(q.Class) +
		" collection=" + strconv.Quote(q.Collection) +
		" text=" + strconv.Quote(q.Text) +
		" offset=" + strconv.Itoa(q.Offset) +
		" limit=" + strconv.Itoa(q.Limit) +
		" score=" + strconv.Itoa(q.Score)
}
