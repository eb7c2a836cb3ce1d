// Package i18n maps message keys to localized strings.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	KeyID           = "tareas.field.id"
	KeyNombre       = "tareas.field.nombre"
	KeyFechaLimite  = "tareas.field.fechaLimite"
	KeyUntitled     = "tareas.untitled"
	KeyNoTasks      = "tareas.empty"
	KeyCreateTitle  = "tareas.create.title"
	KeyEditTitle    = "tareas.edit.title"
	KeyDeleteTitle  = "tareas.delete.title"
	KeyDeleteQuery  = "tareas.delete.question"
	KeyShellPrompt  = "tareas.shell.prompt"
	KeyShellHelp    = "tareas.shell.help"
	KeyNoModalOpen  = "tareas.shell.noModal"
	KeyModalOpen    = "tareas.shell.modalOpen"
	KeyUnknownInput = "tareas.shell.unknown"
	KeyCount        = "tareas.count"
)

var entries = map[string]map[language.Tag]string{
	KeyID:          {language.English: "ID", language.Spanish: "ID"},
	KeyNombre:      {language.English: "Name", language.Spanish: "Nombre"},
	KeyFechaLimite: {language.English: "Due date", language.Spanish: "Fecha límite"},
	KeyUntitled:    {language.English: "(untitled)", language.Spanish: "(sin nombre)"},
	KeyNoTasks:     {language.English: "no tasks found", language.Spanish: "no hay tareas"},
	KeyCreateTitle: {language.English: "New task", language.Spanish: "Nueva tarea"},
	KeyEditTitle:   {language.English: "Edit task", language.Spanish: "Editar tarea"},
	KeyDeleteTitle: {language.English: "Delete task", language.Spanish: "Eliminar tarea"},
	KeyDeleteQuery: {
		language.English: "Delete task %s?",
		language.Spanish: "¿Eliminar la tarea %s?",
	},
	KeyShellPrompt: {language.English: "tareas> ", language.Spanish: "tareas> "},
	KeyShellHelp: {
		language.English: "commands: list, new, edit <ref>, delete <ref>, set nombre <text>, set fecha <date|->, show, ok, cancel, quit",
		language.Spanish: "comandos: list, new, edit <ref>, delete <ref>, set nombre <texto>, set fecha <fecha|->, show, ok, cancel, quit",
	},
	KeyNoModalOpen: {language.English: "nothing to confirm", language.Spanish: "nada que confirmar"},
	KeyModalOpen: {
		language.English: "finish the open dialog first: ok or cancel",
		language.Spanish: "termina primero el diálogo abierto: ok o cancel",
	},
	KeyUnknownInput: {
		language.English: "unknown command: %s",
		language.Spanish: "comando desconocido: %s",
	},
	KeyCount: {language.English: "%d task(s)", language.Spanish: "%d tarea(s)"},
}

var (
	supported = []language.Tag{language.English, language.Spanish}
	matcher   = language.NewMatcher(supported)
	messages  = buildCatalog()
)

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, byLang := range entries {
		for tag, msg := range byLang {
			// Keys are compile-time constants; a failure here is a programming error.
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Translator renders message keys in one language.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a translator for lang (a BCP 47 tag such as "es" or "en-US").
// Unsupported or malformed tags fall back to English.
func New(lang string) *Translator {
	tag := language.English
	if parsed, err := language.Parse(lang); err == nil {
		_, idx, conf := matcher.Match(parsed)
		if conf != language.No {
			tag = supported[idx]
		}
	}
	return &Translator{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(messages)),
	}
}

// Lang returns the resolved language tag.
func (t *Translator) Lang() language.Tag {
	return t.tag
}

// T translates key, formatting args into the message. Unknown keys render as the key.
func (t *Translator) T(key string, args ...any) string {
	return t.printer.Sprintf(key, args...)
}
