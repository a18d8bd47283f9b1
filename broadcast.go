package main

import (
	"github.com/vmihailenco/msgpack/v5"
)

// broadcastState recomputes and pushes the per-connection world views.
// Alive players get a visibility-filtered gameState; spectators get the
// omniscient spectatorState. Item state is intentionally global — loot is
// always on the map, distant combatants are not. Lock must be held.
func (g *Game) broadcastState() {
	if !g.started {
		return
	}

	alive := g.alivePlayers()
	aliveCount := len(alive)

	for id, p := range g.players {
		c := g.clients[id]
		if c == nil || !p.Alive {
			continue
		}

		players := make([]PlayerState, 0, len(alive))
		for _, q := range alive {
			if q.ID == p.ID || Distance(p.X, p.Y, q.X, q.Y) < VisibilityRadius {
				players = append(players, q.ToState())
			}
		}

		animals := make([]AnimalState, 0, len(g.animals))
		for _, a := range g.animals {
			if Distance(p.X, p.Y, a.X, a.Y) < VisibilityRadius {
				animals = append(animals, a.ToState())
			}
		}

		g.sendState(c, MsgGameState, GameStateMsg{
			Players:       players,
			Animals:       animals,
			Items:         g.items,
			AliveCount:    aliveCount,
			CurrentPlayer: p.ToSelfState(),
		})
	}

	if len(g.spectators) == 0 {
		return
	}
	spec := SpectatorStateMsg{
		Players:    g.allStates(),
		Animals:    g.animalStates(),
		Items:      g.items,
		AliveCount: aliveCount,
	}
	for id := range g.spectators {
		if c := g.clients[id]; c != nil {
			g.sendState(c, MsgSpectatorState, spec)
		}
	}
}

// sendState delivers a state payload, honoring the client's encoding:
// msgpack binary frames for clients that opted in, JSON otherwise.
func (g *Game) sendState(c Broadcaster, event string, payload interface{}) {
	if cl, ok := c.(*Client); ok && cl.WantsBinary() {
		if data, err := msgpack.Marshal(Envelope{T: event, Data: payload}); err == nil {
			cl.SendBinary(data)
			return
		}
	}
	c.SendJSON(Envelope{T: event, Data: payload})
}
