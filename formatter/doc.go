// Package formatter compiles user layout patterns into reusable
// rendering plans and renders captured records through them.
//
// A layout pattern such as
//
//	%(ascii_time) [%(thread)] %(filename):%(lineno) %(level_name) %(logger_name) - %(message)
//
// is parsed once, at construction. Everything before %(message) becomes
// the prefix plan and everything after it the suffix plan: an ordered
// slice of attribute resolvers plus a template string where each token
// was replaced by a {} marker. Rendering an event is then three cheap
// steps: expand the prefix plan, expand the call site's message
// template with the captured arguments, expand the suffix plan, and
// terminate with a newline. Parsing cost is paid once; rendering is
// append-only into a scratch buffer the formatter reuses call to call.
//
// Timestamps are rendered through a strftime-style date format with a
// configurable sub-second precision. The whole-second portion is cached
// between calls and recomputed only when the second changes.
package formatter
