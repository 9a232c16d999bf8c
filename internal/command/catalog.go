package command

// CatalogEntry is one row of the command catalog: the literal syntax shown to
// the user and a short description.
type CatalogEntry struct {
	Syntax      string
	Description string
}

// CatalogSection groups catalog entries by the scope they apply in.
type CatalogSection struct {
	Title    string
	Scope    string
	Commands []CatalogEntry
}

// Catalog is the user-facing command reference, organized by scope. The
// syntax strings are the wire contract with the user and are rendered
// verbatim by /help and the guide.
var Catalog = []CatalogSection{
	{
		Title: "Global (any page)",
		Scope: "Everyone",
		Commands: []CatalogEntry{
			{Syntax: "/help", Description: "Show these role-scoped commands."},
			{Syntax: "/guide", Description: "Open the guide & onboarding page."},
			{Syntax: "/whoami", Description: "Show your identity and current room role."},
			{Syntax: "/setname <display-name>", Description: "Update the display name for this tab."},
			{Syntax: "/clear", Description: "Reset the terminal output buffer."},
			{Syntax: "Plain text", Description: "Send chat to everyone in the active room."},
		},
	},
	{
		Title: "Room members",
		Scope: "Inside a room (any role)",
		Commands: []CatalogEntry{
			{Syntax: "/leave", Description: "Exit the room and return to the lobby."},
			{Syntax: "/recent [clear]", Description: "List or clear recently opened rooms."},
			{Syntax: "/relay <room-id> [password] <text>", Description: "Send a message into another room without leaving."},
		},
	},
	{
		Title: "Lead commands",
		Scope: "Leader or co-leader",
		Commands: []CatalogEntry{
			{Syntax: "/invite <username> [message]", Description: "Send an invite to someone's mailbox."},
			{Syntax: "/kick <display-name>", Description: "Remove a participant from the current room."},
		},
	},
	{
		Title: "Leader only",
		Scope: "Room owner",
		Commands: []CatalogEntry{
			{Syntax: "/topic [text|clear]", Description: "View, set, or clear the persistent room topic."},
			{Syntax: "/delete <room-id>", Description: "Delete a room you own (every tab is redirected)."},
			{Syntax: "/ban <display-name>", Description: "Ban + remove a participant from the room."},
			{Syntax: "/promote <display-name>", Description: "Promote a member to co-leader."},
			{Syntax: "/demote <display-name>", Description: "Demote a co-leader back to member."},
		},
	},
}
