package constant

// Scripted resolver contract - a Lua resolver script must define this global function.
const ResolveFn = "Resolve"

// ResolverTemplate is a Go text/template for scaffolding new Lua resolver files.
const ResolverTemplate = `-- @name    {{ .Name }}
-- @author  {{ .Author }}
--
-- Resolver scripts run without io, os or network access.
-- The same descriptor must always resolve to the same URL.

--- Maps a source descriptor to a directly playable URL.
-- @param descriptor string The user-entered source reference
-- @return string Playable URL, or nil plus a message when the descriptor is not usable
function {{ .ResolveFn }}(descriptor)
	return nil, "not implemented"
end
`
