package notes

const welcomeIntro = `# Welcome to Volón

Volón is a minimal, keyboard-first notes app built around [Markdown]. Press ` + "`ctrl+p`" + ` to toggle the Markdown preview of the current note.

There are 3 main areas where you create, search, and choose your notes:

- **Search/Create bar**: type to search the contents of every note. Press enter to create a note with your text as its title.
- **Notes list**: all of your notes, ordered by date last modified.
- **Editor**: where you write and update your notes (where you are reading this).

---

### Sync
Run ` + "`volon login`" + ` to keep your notes on a Volón server. Notes you wrote before signing in are imported on your first login.

Volón is based on [nvALT](http://brettterpstra.com/projects/nvalt/), which is based on [Notational Velocity](http://notational.net/).

[Markdown]: https://guides.github.com/features/mastering-markdown/
`

const welcomeShortcuts = `# How to do other stuff in Volón

Volón was designed for keyboard input above all else. Everything you would want to do is a shortcut away.

### Keyboard Shortcuts
- ` + "`ctrl+k`" + `: move focus to the search/create bar
- ` + "`up/down`" + `: navigate through your notes
- ` + "`i`" + `: edit the selected note, ` + "`esc`" + ` to stop editing
- ` + "`ctrl+p`" + `: Markdown preview
- ` + "`ctrl+d`" + `: delete the selected note, ` + "`ctrl+z`" + ` to undo
- ` + "`ctrl+b`" + `: show or hide the notes list
- ` + "`?`" + `: help
`

// WelcomeNotes returns the built-in notes used to seed an empty store.
// Each call constructs new notes with fresh ids.
func WelcomeNotes() []Note {
	return []Note{
		New(welcomeIntro),
		New(welcomeShortcuts),
	}
}
