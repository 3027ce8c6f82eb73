package i18n

import "sync"

type Language string

const (
	Italian Language = "it"
	English Language = "en"
)

var (
	mu          sync.RWMutex
	currentLang = English
)

type Messages struct {
	// General
	Loading        string
	Notes          string
	Untitled       string
	NoNoteSelected string
	Unsaved        string
	Help           string
	Exit           string
	Yes            string
	No             string

	// Modes
	ModeList   string
	ModeSearch string
	ModeEdit   string
	ModeLocal  string
	ModeRemote string

	// Panels
	SearchPlaceholder string
	EditorPlaceholder string
	NoMatches         string

	// Metadata
	CreatedAt  string
	ModifiedAt string
	Words      string
	Characters string

	// Notices
	NoteDeleted   string
	UndoHint      string
	NoteRestored  string
	UndoExpired   string
	NoteExported  string
	SaveFailed    string
	OrderModified string
	OrderCreated  string

	// Help sections
	HelpNavigation string
	HelpEditing    string
	HelpActions    string
	HelpView       string
	HelpGeneral    string
	HelpClose      string

	// Help descriptions
	HelpUp       string
	HelpDown     string
	HelpOpen     string
	HelpSearch   string
	HelpSubmit   string
	HelpEdit     string
	HelpExitEdit string
	HelpSave     string
	HelpNew      string
	HelpDelete   string
	HelpUndo     string
	HelpPreview  string
	HelpAside    string
	HelpOrder    string
	HelpExport   string
	HelpHelp     string
	HelpExit     string

	// Key hints
	KeyUp      string
	KeyDown    string
	KeyEnter   string
	KeyEdit    string
	KeyEscape  string
	KeySave    string
	KeyNew     string
	KeyDelete  string
	KeyUndo    string
	KeySearch  string
	KeyPreview string
	KeyAside   string
	KeyOrder   string
	KeyExport  string
	KeyHelp    string
	KeyQuit    string

	// CLI
	ImportedNotes    string
	LoggedInAs       string
	LoggedOut        string
	Registered       string
	DeletedAll       string
	ConfirmDeleteAll string
	SampleCreated    string
	ServerNotSet     string
	NotSignedIn      string
	PasswordPrompt   string
	UsernamePrompt   string
}

var translations = map[Language]Messages{
	English: {
		Loading:        "Loading...",
		Notes:          "notes",
		Untitled:       "Untitled",
		NoNoteSelected: "No note selected",
		Unsaved:        "Unsaved",
		Help:           "Help",
		Exit:           "Exit",
		Yes:            "Yes",
		No:             "No",

		ModeList:   "LIST",
		ModeSearch: "SEARCH",
		ModeEdit:   "EDIT",
		ModeLocal:  "local",
		ModeRemote: "synced",

		SearchPlaceholder: "Search or create...",
		EditorPlaceholder: "Write your note in Markdown...",
		NoMatches:         "No matches. Press Enter to create a note.",

		CreatedAt:  "Created",
		ModifiedAt: "Modified",
		Words:      "Words",
		Characters: "Characters",

		NoteDeleted:   "Deleted %q",
		UndoHint:      "%s to undo",
		NoteRestored:  "Restored %q",
		UndoExpired:   "Nothing to undo",
		NoteExported:  "Exported to %s",
		SaveFailed:    "Not saved: %v",
		OrderModified: "Sorted by date modified",
		OrderCreated:  "Sorted by date created",

		HelpNavigation: "Navigation",
		HelpEditing:    "Editing",
		HelpActions:    "Actions",
		HelpView:       "View",
		HelpGeneral:    "General",
		HelpClose:      "Press Esc or ? to close",

		HelpUp:       "Previous note",
		HelpDown:     "Next note",
		HelpOpen:     "Open note in the editor",
		HelpSearch:   "Focus the search/create bar",
		HelpSubmit:   "Create a note titled with the query, or open the selected note",
		HelpEdit:     "Edit the active note",
		HelpExitEdit: "Save and leave the editor",
		HelpSave:     "Save",
		HelpNew:      "New empty note",
		HelpDelete:   "Delete the active note",
		HelpUndo:     "Undo the last delete",
		HelpPreview:  "Toggle Markdown preview",
		HelpAside:    "Toggle the notes list",
		HelpOrder:    "Toggle sort order",
		HelpExport:   "Export the active note as HTML",
		HelpHelp:     "Show this help",
		HelpExit:     "Quit",

		KeyUp:      "up",
		KeyDown:    "down",
		KeyEnter:   "open",
		KeyEdit:    "edit",
		KeyEscape:  "back",
		KeySave:    "save",
		KeyNew:     "new",
		KeyDelete:  "delete",
		KeyUndo:    "undo",
		KeySearch:  "search",
		KeyPreview: "preview",
		KeyAside:   "list",
		KeyOrder:   "order",
		KeyExport:  "export",
		KeyHelp:    "help",
		KeyQuit:    "quit",

		ImportedNotes:    "Imported %d local notes",
		LoggedInAs:       "Logged in as %s",
		LoggedOut:        "Logged out",
		Registered:       "Registered %s",
		DeletedAll:       "Deleted %d notes",
		ConfirmDeleteAll: "Delete all %d notes? [y/N] ",
		SampleCreated:    "Created %d sample notes",
		ServerNotSet:     "no server URL configured (use --server or server.url)",
		NotSignedIn:      "not logged in",
		PasswordPrompt:   "Password: ",
		UsernamePrompt:   "Username: ",
	},
	Italian: {
		Loading:        "Caricamento...",
		Notes:          "note",
		Untitled:       "Senza titolo",
		NoNoteSelected: "Nessuna nota selezionata",
		Unsaved:        "Non salvato",
		Help:           "Aiuto",
		Exit:           "Esci",
		Yes:            "Sì",
		No:             "No",

		ModeList:   "LISTA",
		ModeSearch: "RICERCA",
		ModeEdit:   "MODIFICA",
		ModeLocal:  "locale",
		ModeRemote: "sincronizzato",

		SearchPlaceholder: "Cerca o crea...",
		EditorPlaceholder: "Scrivi la tua nota in Markdown...",
		NoMatches:         "Nessun risultato. Premi Invio per creare una nota.",

		CreatedAt:  "Creata",
		ModifiedAt: "Modificata",
		Words:      "Parole",
		Characters: "Caratteri",

		NoteDeleted:   "Eliminata %q",
		UndoHint:      "%s per annullare",
		NoteRestored:  "Ripristinata %q",
		UndoExpired:   "Niente da annullare",
		NoteExported:  "Esportata in %s",
		SaveFailed:    "Non salvata: %v",
		OrderModified: "Ordinate per data di modifica",
		OrderCreated:  "Ordinate per data di creazione",

		HelpNavigation: "Navigazione",
		HelpEditing:    "Modifica",
		HelpActions:    "Azioni",
		HelpView:       "Vista",
		HelpGeneral:    "Generale",
		HelpClose:      "Premi Esc o ? per chiudere",

		HelpUp:       "Nota precedente",
		HelpDown:     "Nota successiva",
		HelpOpen:     "Apri la nota nell'editor",
		HelpSearch:   "Vai alla barra di ricerca/creazione",
		HelpSubmit:   "Crea una nota con la ricerca come titolo, o apri la nota selezionata",
		HelpEdit:     "Modifica la nota attiva",
		HelpExitEdit: "Salva ed esci dall'editor",
		HelpSave:     "Salva",
		HelpNew:      "Nuova nota vuota",
		HelpDelete:   "Elimina la nota attiva",
		HelpUndo:     "Annulla l'ultima eliminazione",
		HelpPreview:  "Mostra/nascondi anteprima Markdown",
		HelpAside:    "Mostra/nascondi la lista",
		HelpOrder:    "Cambia ordinamento",
		HelpExport:   "Esporta la nota attiva in HTML",
		HelpHelp:     "Mostra questo aiuto",
		HelpExit:     "Esci",

		KeyUp:      "su",
		KeyDown:    "giù",
		KeyEnter:   "apri",
		KeyEdit:    "modifica",
		KeyEscape:  "indietro",
		KeySave:    "salva",
		KeyNew:     "nuova",
		KeyDelete:  "elimina",
		KeyUndo:    "annulla",
		KeySearch:  "cerca",
		KeyPreview: "anteprima",
		KeyAside:   "lista",
		KeyOrder:   "ordine",
		KeyExport:  "esporta",
		KeyHelp:    "aiuto",
		KeyQuit:    "esci",

		ImportedNotes:    "Importate %d note locali",
		LoggedInAs:       "Accesso eseguito come %s",
		LoggedOut:        "Disconnesso",
		Registered:       "Registrato %s",
		DeletedAll:       "Eliminate %d note",
		ConfirmDeleteAll: "Eliminare tutte le %d note? [s/N] ",
		SampleCreated:    "Create %d note di esempio",
		ServerNotSet:     "nessun server configurato (usa --server o server.url)",
		NotSignedIn:      "accesso non eseguito",
		PasswordPrompt:   "Password: ",
		UsernamePrompt:   "Nome utente: ",
	},
}

// SetLanguage switches the message set. Unknown languages are ignored.
func SetLanguage(lang Language) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := translations[lang]; ok {
		currentLang = lang
	}
}

func GetLanguage() Language {
	mu.RLock()
	defer mu.RUnlock()
	return currentLang
}

func T() Messages {
	mu.RLock()
	defer mu.RUnlock()
	return translations[currentLang]
}
