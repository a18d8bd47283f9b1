package main

import (
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"
)

const (
	VisibilityRadius = 100.0
	MinPlayers       = 2
	MaxPlayers       = StartRingSlots
	maxNameLen       = 16
)

// Timing knobs are vars so tests can shorten them.
var (
	TickInterval   = 100 * time.Millisecond
	CountdownTick  = time.Second
	CountdownStart = 10
	ResetDelay     = 5 * time.Second
)

// Broadcaster interface for sending messages to clients
type Broadcaster interface {
	SendJSON(msg interface{})
}

// Game owns the single process-wide match aggregate. Every mutation —
// client intents, the countdown ticker and the simulation tick — is
// serialized through g.mu, so the aggregate only ever has one writer.
type Game struct {
	mu             sync.Mutex
	db             *DB
	players        map[string]*Player
	clients        map[string]Broadcaster
	spectators     map[string]bool
	claimedAnimals map[string]string // animalId -> player id
	arena          *Arena
	items          []*Item
	animals        []*Animal
	started        bool
	active         bool
	countdown      int
	countdownOn    bool
	startedAt      time.Time
	round          uint64 // bumped on reset so stale timers bail out
}

// NewGame creates an empty lobby-state game
func NewGame(db *DB) *Game {
	return &Game{
		db:             db,
		players:        make(map[string]*Player),
		clients:        make(map[string]Broadcaster),
		spectators:     make(map[string]bool),
		claimedAnimals: make(map[string]string),
		countdown:      CountdownStart,
	}
}

// Join registers a player in the lobby. Rejected once a match has started
// or when the requested avatar is already claimed.
func (g *Game) Join(id string, msg JoinGameMsg, c Broadcaster) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.started {
		c.SendJSON(Envelope{T: MsgGameInProgress})
		return
	}
	if len(g.players) >= MaxPlayers {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "lobby full"}})
		return
	}

	name := strings.TrimSpace(msg.Name)
	if name == "" {
		name = "Tribute"
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}

	if msg.AnimalID != "" {
		if _, taken := g.claimedAnimals[msg.AnimalID]; taken {
			c.SendJSON(Envelope{T: MsgAnimalTaken, Data: AnimalTakenMsg{AnimalID: msg.AnimalID}})
			return
		}
		g.claimedAnimals[msg.AnimalID] = id
	}

	p := NewPlayer(id, name, msg.AnimalID, msg.Image)
	g.players[id] = p
	g.clients[id] = c

	g.broadcastMsg(Envelope{T: MsgPlayersUpdate, Data: g.lobbyRoster()})
	c.SendJSON(Envelope{T: MsgJoinedGame, Data: p.ToState()})
}

// Start launches the match: generates the world, assigns attributes and
// kicks off the countdown. A no-op if already started.
func (g *Game) Start(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.started {
		return
	}
	if len(g.players) < MinPlayers {
		g.sendTo(id, Envelope{T: MsgNotEnoughPlayers})
		return
	}

	g.arena = GenerateArena()
	g.items = GenerateItems(g.arena)
	g.animals = GenerateAnimals(AnimalSpawnCount)

	// Shuffled ring slots guarantee pairwise-distinct starting positions
	slots := rand.Perm(len(g.arena.StartingPositions))
	i := 0
	for _, p := range g.players {
		p.AssignAttributes(g.arena.StartingPositions[slots[i]])
		i++
	}

	g.started = true
	g.active = true
	g.countdown = CountdownStart
	g.countdownOn = true
	g.startedAt = time.Now()

	g.broadcastMsg(Envelope{T: MsgGameStarting, Data: GameStartingMsg{
		Arena:   g.arena,
		Items:   g.items,
		Animals: g.animalStates(),
		Players: g.allStates(),
	}})

	go g.runCountdown(g.round)
}

// EarlyMove punishes movement during the countdown with elimination.
// The player's position never changes.
func (g *Game) EarlyMove(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.countdownOn {
		return
	}
	p := g.players[id]
	if p == nil || !p.Alive {
		return
	}

	g.eliminate(p)
	g.broadcastMsg(Envelope{T: MsgPlayerEliminated, Data: PlayerEliminatedMsg{
		PlayerID: p.ID,
		Reason:   "earlyMovement",
		Message:  p.Name + " moved before the gong",
	}})
	g.checkGameEnd()
}

// Move validates and applies a movement intent, then resolves item pickups.
func (g *Game) Move(id string, x, y float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.players[id]
	if p == nil || !p.Alive || !g.active || g.countdownOn {
		return
	}

	x = Clamp(x, 0, g.arena.Width)
	y = Clamp(y, 0, g.arena.Height)

	// Basic server-side validation: a single intent may not teleport
	if d := Distance(p.X, p.Y, x, y); d > p.MaxMoveStep() {
		scale := p.MaxMoveStep() / d
		x = p.X + (x-p.X)*scale
		y = p.Y + (y-p.Y)*scale
	}
	p.X = x
	p.Y = y

	for _, it := range g.items {
		if it.Taken {
			continue
		}
		if Distance(p.X, p.Y, it.X, it.Y) < PickupRadius {
			it.Taken = true
			p.Inventory = append(p.Inventory, it)
			if it.Category == CategoryWeapon {
				if p.Weapon == nil {
					p.Weapon = it
				}
				g.broadcastMsg(Envelope{T: MsgWeaponTaken, Data: WeaponTakenMsg{PlayerID: p.ID, Weapon: it.Name}})
			}
			g.sendTo(id, Envelope{T: MsgItemPickup, Data: ItemPickupMsg{PlayerID: p.ID, Item: it}})
		}
	}

	g.broadcastState()
}

// Attack resolves a melee attack against another player
func (g *Game) Attack(id, targetID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	attacker := g.players[id]
	target := g.players[targetID]
	if attacker == nil || target == nil || id == targetID {
		return
	}
	if !attacker.Alive || !target.Alive || !g.active || g.countdownOn {
		return
	}

	if InMeleeRange(attacker, target) {
		dmg := ApplyDefense(AttackDamage(attacker), target)
		if target.TakeDamage(dmg) {
			attacker.Kills++
			g.eliminate(target)
			g.broadcastMsg(Envelope{T: MsgPlayerKilled, Data: PlayerKilledMsg{
				Killer: attacker.Name,
				Victim: target.Name,
			}})
			g.checkGameEnd()
		}
	}

	g.broadcastState()
}

// UseItem applies an inventory item: consumables mutate stats and are
// removed, weapons are equipped and stay held.
func (g *Game) UseItem(id, itemID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.players[id]
	if p == nil || !p.Alive {
		return
	}
	idx := p.HoldsItem(itemID)
	if idx < 0 {
		return
	}

	it := p.Inventory[idx]
	if it.Category == CategoryWeapon {
		p.Weapon = it
		g.sendTo(id, Envelope{T: MsgItemUsed, Data: ItemUsedMsg{Item: it, Effect: "equipped"}})
	} else {
		desc := it.Effect.Apply(p)
		p.RemoveItem(idx)
		g.sendTo(id, Envelope{T: MsgItemUsed, Data: ItemUsedMsg{Item: it, Effect: desc}})
	}

	g.broadcastState()
}

// Disconnect removes a player entirely; mid-match this can end the game
// by attrition.
func (g *Game) Disconnect(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.players[id]
	delete(g.clients, id)
	if p == nil {
		return
	}
	delete(g.players, id)
	delete(g.spectators, id)
	if p.AnimalID != "" {
		delete(g.claimedAnimals, p.AnimalID)
	}

	g.broadcastMsg(Envelope{T: MsgPlayersUpdate, Data: g.lobbyRoster()})

	if g.active {
		g.checkGameEnd()
	}
}

// runCountdown ticks once per second broadcasting the countdown value,
// then hands off to the simulation loop.
func (g *Game) runCountdown(round uint64) {
	ticker := time.NewTicker(CountdownTick)
	defer ticker.Stop()

	for range ticker.C {
		g.mu.Lock()
		if g.round != round || !g.active {
			g.mu.Unlock()
			return
		}
		g.broadcastMsg(Envelope{T: MsgCountdownUpdate, Data: CountdownMsg{Count: g.countdown}})
		g.countdown--
		if g.countdown < 0 {
			g.countdownOn = false
			g.broadcastMsg(Envelope{T: MsgCountdownEnd})
			g.mu.Unlock()
			go g.run(round)
			return
		}
		g.mu.Unlock()
	}
}

// run is the fixed-period simulation loop
func (g *Game) run(round uint64) {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	for range ticker.C {
		if !g.tick(round) {
			return
		}
	}
}

// tick advances animals and player stat decay by one step, then broadcasts.
// Returns false once the loop should stop.
func (g *Game) tick(round uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.round != round || !g.active {
		return false
	}

	for _, a := range g.animals {
		a.Update()
	}

	for _, p := range g.players {
		if p.DecayStats() {
			g.eliminate(p)
			g.broadcastMsg(Envelope{T: MsgPlayerEliminated, Data: PlayerEliminatedMsg{
				PlayerID: p.ID,
				Reason:   "starvation",
				Message:  p.Name + " succumbed to the arena",
			}})
		}
	}

	g.checkGameEnd()
	g.broadcastState()
	return g.active
}

// eliminate flips the player to spectator and notifies them. The caller
// broadcasts the path-specific notice. Lock must be held.
func (g *Game) eliminate(p *Player) {
	if !p.Alive {
		return
	}
	p.Placement = len(g.alivePlayers())
	p.Alive = false
	p.Health = 0
	g.spectators[p.ID] = true
	g.sendTo(p.ID, Envelope{T: MsgEliminated})
}

// checkGameEnd transitions to the ended state when at most one player is
// left alive, and schedules the delayed reset. Lock must be held.
func (g *Game) checkGameEnd() {
	if !g.started || !g.active {
		return
	}
	alive := g.alivePlayers()
	if len(alive) > 1 {
		return
	}

	g.active = false
	g.countdownOn = false

	winner := "No one"
	if len(alive) == 1 {
		alive[0].Placement = 1
		winner = alive[0].Name
	}

	g.broadcastMsg(Envelope{T: MsgGameOver, Data: GameOverMsg{
		Winner:  winner,
		Players: g.allStates(),
	}})

	if g.db != nil {
		res := g.matchResult(winner)
		go func() {
			if err := g.db.RecordMatch(res); err != nil {
				log.Printf("record match: %v", err)
			}
		}()
	}

	round := g.round
	time.AfterFunc(ResetDelay, func() { g.reset(round) })
}

// reset replaces the whole match aggregate with a fresh lobby. Connected
// clients keep their sockets but must join again.
func (g *Game) reset(round uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.round != round {
		return
	}
	g.round++
	g.players = make(map[string]*Player)
	g.clients = make(map[string]Broadcaster)
	g.spectators = make(map[string]bool)
	g.claimedAnimals = make(map[string]string)
	g.arena = nil
	g.items = nil
	g.animals = nil
	g.started = false
	g.active = false
	g.countdownOn = false
	g.countdown = CountdownStart
}

// matchResult snapshots the final roster for the archive. Lock must be held.
func (g *Game) matchResult(winner string) MatchResult {
	res := MatchResult{
		Winner:   winner,
		Duration: time.Since(g.startedAt).Seconds(),
	}
	for _, p := range g.players {
		res.Players = append(res.Players, MatchPlayerResult{
			Name:      p.Name,
			District:  p.District.Name,
			Ability:   p.Ability,
			Kills:     p.Kills,
			Placement: p.Placement,
		})
	}
	return res
}

// ---- helpers (lock must be held) ----

func (g *Game) sendTo(id string, msg Envelope) {
	if c, ok := g.clients[id]; ok {
		c.SendJSON(msg)
	}
}

func (g *Game) broadcastMsg(msg Envelope) {
	for _, c := range g.clients {
		c.SendJSON(msg)
	}
}

func (g *Game) alivePlayers() []*Player {
	alive := make([]*Player, 0, len(g.players))
	for _, p := range g.players {
		if p.Alive {
			alive = append(alive, p)
		}
	}
	return alive
}

func (g *Game) allStates() []PlayerState {
	states := make([]PlayerState, 0, len(g.players))
	for _, p := range g.players {
		states = append(states, p.ToState())
	}
	return states
}

func (g *Game) animalStates() []AnimalState {
	states := make([]AnimalState, 0, len(g.animals))
	for _, a := range g.animals {
		states = append(states, a.ToState())
	}
	return states
}

func (g *Game) lobbyRoster() PlayersUpdateMsg {
	roster := make([]LobbyPlayer, 0, len(g.players))
	for _, p := range g.players {
		roster = append(roster, LobbyPlayer{ID: p.ID, Name: p.Name, AnimalID: p.AnimalID})
	}
	return PlayersUpdateMsg{Players: roster, Count: len(roster)}
}

// ---- read-only accessors for tests and HTTP handlers ----

func (g *Game) PlayerCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.players)
}

func (g *Game) AliveCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.alivePlayers())
}

func (g *Game) Started() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.started
}
