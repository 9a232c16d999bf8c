package cli

// guideText is the onboarding page rendered by /guide.
const guideText = `TermRooms guide

Identity
  You start as a guest with a generated name (Guest-1234). Guests can watch
  rooms and chat, but cannot create rooms or hold roles. 'signup' creates an
  account protected by a 6-digit PIN; '/setname' changes how you appear.

Rooms
  'create' makes a room with a short id like k3x9q2. Share the id (and the
  password, if you set one) so others can 'join'. The creator is the room
  leader; everyone who joins with an account becomes a member. Each room keeps
  a topic, a message log, and a ban list.

Roles
  leader     the room owner; full control
  co-leader  promoted by the leader; can invite and kick members
  member     a signed-in participant
  guest      watching without an account

Inside a room
  Plain text is chat. Slash commands do everything else; start with /help to
  see which commands your role unlocks. 'loadmore' reveals older history,
  '/leave' returns to the lobby.

Invites
  Leaders send invites with /invite. Check yours with 'mail', then
  'accept <n>' or 'decline <n>'. Accepting admits you without the password.`
