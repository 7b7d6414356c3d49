package ui

import (
	"strings"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

func appPage(title string, body ...Node) Node {
	return HTML(
		Lang("en"),
		Head(
			Meta(Charset("utf-8")),
			Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
			TitleEl(Text(title+" | Innings Explorer")),
			Link(Rel("icon"), Href("data:,")),
			Link(Rel("stylesheet"), Href(uiStylesheetHref())),
			Script(Raw(themeInitScript)),
		),
		Body(
			Main(Class("app-shell"),
				Div(
					Class("topbar"),
					H1(Class("page-title"), Text(title)),
					Button(ID("theme-toggle"), Type("button"), Class(secondaryButtonClass()), Text("Theme")),
				),
				Div(Class("content"), Group(body)),
			),
			Script(Raw(themeToggleScript)),
		),
	)
}

func errorPage(title, message string) Node {
	return appPage(title,
		Div(
			Class(cardClass()),
			P(Text(message)),
			P(A(Href("/ui/results"), Text("Back to results"))),
		),
	)
}

func cardClass(extra ...string) string {
	parts := []string{"card"}
	parts = append(parts, extra...)
	return strings.Join(parts, " ")
}

func mutedClass() string {
	return "muted"
}

func primaryButtonClass() string {
	return "btn btn-primary"
}

func secondaryButtonClass() string {
	return "btn"
}

func emptyStateCard(message string) Node {
	return Div(Class(cardClass("blankslate")), P(Class(mutedClass()), Text(message)))
}

func optionSelectedValue(value string, selected bool, label string) Node {
	if selected {
		return Option(Value(value), Selected(), Text(label))
	}
	return Option(Value(value), Text(label))
}
