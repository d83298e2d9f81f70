package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	Help      key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding
	Jump      key.Binding
	Up        key.Binding
	Down      key.Binding
	Open      key.Binding
	Back      key.Binding
	Search    key.Binding
	Source    key.Binding
	FacetName key.Binding
	FacetIng  key.Binding
	FacetGlas key.Binding
	Favorite  key.Binding
	Like      key.Binding
	Dislike   key.Binding
	Copy      key.Binding
	Mine      key.Binding
	Toggle    key.Binding
	Save      key.Binding
	Shuffle   key.Binding
	Login     key.Binding
	Signup    key.Binding
	Logout    key.Binding
	Name      key.Binding
	Email     key.Binding
	Password  key.Binding
	Delete    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		NextTab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		PrevTab:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous view")),
		Jump:      key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "jump")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Source:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "all/mine/favorites")),
		FacetName: key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "search names")),
		FacetIng:  key.NewBinding(key.WithKeys("I"), key.WithHelp("I", "search ingredients")),
		FacetGlas: key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "search glassware")),
		Favorite:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		Like:      key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "like")),
		Dislike:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dislike")),
		Copy:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy recipe")),
		Mine:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "all/mine")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "add/remove")),
		Save:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Shuffle:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "other picks")),
		Login:     key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "log in")),
		Signup:    key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "sign up")),
		Logout:    key.NewBinding(key.WithKeys("O"), key.WithHelp("O", "log out")),
		Name:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "change name")),
		Email:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "change email")),
		Password:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "change password")),
		Delete:    key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete account")),
	}
}
