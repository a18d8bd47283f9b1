package main

import "encoding/json"

// Client -> Server message types
const (
	MsgJoinGame      = "joinGame"
	MsgStartGame     = "startGame"
	MsgPlayerMove    = "playerMove"
	MsgPlayerAttack  = "playerAttack"
	MsgUseItem       = "useItem"
	MsgEarlyMovement = "earlyMovement"
	MsgBinaryState   = "binaryState" // opt in to msgpack state frames
)

// Server -> Client message types
const (
	MsgPlayersUpdate    = "playersUpdate"
	MsgJoinedGame       = "joinedGame"
	MsgGameInProgress   = "gameInProgress"
	MsgNotEnoughPlayers = "notEnoughPlayers"
	MsgAnimalTaken      = "animalTaken"
	MsgGameStarting     = "gameStarting"
	MsgCountdownUpdate  = "countdownUpdate"
	MsgCountdownEnd     = "countdownEnd"
	MsgPlayerEliminated = "playerEliminated"
	MsgItemPickup       = "itemPickup"
	MsgItemUsed         = "itemUsed"
	MsgWeaponTaken      = "weaponTaken" // legacy variant, weapons only
	MsgPlayerKilled     = "playerKilled"
	MsgEliminated       = "eliminated"
	MsgGameState        = "gameState"
	MsgSpectatorState   = "spectatorState"
	MsgGameOver         = "gameOver"
	MsgError            = "error"
)

// ErrorMsg sends an error to the client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages — json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// JoinGameMsg registers a player in the lobby
type JoinGameMsg struct {
	Name     string `json:"name"`
	AnimalID string `json:"animalId,omitempty"`
	Image    string `json:"image,omitempty"`
}

// PlayerMoveMsg is an absolute movement intent
type PlayerMoveMsg struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PlayerAttackMsg targets another connection's player
type PlayerAttackMsg struct {
	TargetID string `json:"targetId"`
}

// UseItemMsg consumes (or equips) an inventory item
type UseItemMsg struct {
	ItemID string `json:"itemId"`
}

// LobbyPlayer is the pre-match roster entry
type LobbyPlayer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	AnimalID string `json:"animalId,omitempty"`
}

// PlayersUpdateMsg carries the lobby roster
type PlayersUpdateMsg struct {
	Players []LobbyPlayer `json:"players"`
	Count   int           `json:"count"`
}

// AnimalTakenMsg rejects a duplicate avatar claim
type AnimalTakenMsg struct {
	AnimalID string `json:"animalId"`
}

// GameStartingMsg is the initial match payload
type GameStartingMsg struct {
	Arena   *Arena        `json:"arena"`
	Items   []*Item       `json:"items"`
	Animals []AnimalState `json:"animals"`
	Players []PlayerState `json:"players"`
}

// CountdownMsg carries one countdown tick value
type CountdownMsg struct {
	Count int `json:"count"`
}

// PlayerEliminatedMsg names the eliminated player and the cause
type PlayerEliminatedMsg struct {
	PlayerID string `json:"playerId"`
	Reason   string `json:"reason"`
	Message  string `json:"message"`
}

// ItemPickupMsg notifies the acting connection of a pickup
type ItemPickupMsg struct {
	PlayerID string `json:"playerId"`
	Item     *Item  `json:"item"`
}

// ItemUsedMsg notifies the acting connection of a consumed/equipped item
type ItemUsedMsg struct {
	Item   *Item  `json:"item"`
	Effect string `json:"effect"`
}

// WeaponTakenMsg is the legacy broadcast kept for weapon pickups
type WeaponTakenMsg struct {
	PlayerID string `json:"playerId"`
	Weapon   string `json:"weapon"`
}

// PlayerKilledMsg is broadcast on a combat kill
type PlayerKilledMsg struct {
	Killer string `json:"killer"`
	Victim string `json:"victim"`
}

// PlayerState is the per-player view sent inside state broadcasts
type PlayerState struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	District string  `json:"district,omitempty"`
	Ability  string  `json:"ability,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Health   float64 `json:"health"`
	Food     float64 `json:"food"`
	Immune   float64 `json:"immune"`
	Alive    bool    `json:"alive"`
	Weapon   string  `json:"weapon,omitempty"`
	Kills    int     `json:"kills"`
	AnimalID string  `json:"animalId,omitempty"`
}

// SelfState is the acting player's full state, inventory included
type SelfState struct {
	PlayerState
	Inventory []*Item `json:"inventory"`
	Defense   int     `json:"defense"`
	Speed     float64 `json:"speed"`
	StartX    float64 `json:"startX"`
	StartY    float64 `json:"startY"`
}

// AnimalState is broadcast per visible animal
type AnimalState struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Danger    int     `json:"danger"`
	Speed     float64 `json:"speed"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Direction float64 `json:"direction"`
}

// GameStateMsg is the per-connection visibility-filtered broadcast
type GameStateMsg struct {
	Players       []PlayerState `json:"players"`
	Animals       []AnimalState `json:"animals"`
	Items         []*Item       `json:"items"`
	AliveCount    int           `json:"aliveCount"`
	CurrentPlayer SelfState     `json:"currentPlayer"`
}

// SpectatorStateMsg is the omniscient broadcast for eliminated players
type SpectatorStateMsg struct {
	Players    []PlayerState `json:"players"`
	Animals    []AnimalState `json:"animals"`
	Items      []*Item       `json:"items"`
	AliveCount int           `json:"aliveCount"`
}

// GameOverMsg announces the winner and the final roster
type GameOverMsg struct {
	Winner  string        `json:"winner"`
	Players []PlayerState `json:"players"`
}
