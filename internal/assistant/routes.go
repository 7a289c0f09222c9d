// AngelaMos | 2026
// routes.go

package assistant

// Route declares one chat endpoint and the gate stages protecting
// it. Every route passes the rate limit and identity stages; Paid
// adds the plan stage. Composition happens once in RegisterRoutes,
// never ad hoc per handler.
type Route struct {
	Path   string
	Prompt string
	Paid   bool
	Image  bool
}

func Routes() []Route {
	return []Route{
		{Path: "/chat", Prompt: promptGeral},
		{Path: "/chat-advogado", Prompt: promptAdvogado, Paid: true},
		{Path: "/chat-procon", Prompt: promptProcon, Paid: true},
		{Path: "/chat-telefonia", Prompt: promptTelefonia, Paid: true},
		{Path: "/chat-nomesujo", Prompt: promptNomeSujo, Paid: true},
		{Path: "/chat-golpometro", Prompt: promptGolpometro, Image: true},
	}
}
