package main

const (
	MeleeRange          = 50.0
	BaseDamage          = 20
	WeaponDamageBonus   = 15
	AbilityPairBonus    = 10
	DistrictWeaponBonus = 5 // District 2, "Masonry & weapons"
	MinDamage           = 1
)

// abilityWeaponPairs maps an ability to the weapon it amplifies
var abilityWeaponPairs = map[string]string{
	"Sword Fighting": "Sword",
	"Archery":        "Bow and Arrows",
}

// AttackDamage computes the melee damage an attacker deals before the
// target's defense is applied: base 20, +15 for any held weapon, +10 when
// the ability matches the weapon, +5 for the weapons district.
func AttackDamage(attacker *Player) int {
	dmg := BaseDamage
	if attacker.Weapon != nil {
		dmg += attacker.Weapon.Damage
		if abilityWeaponPairs[attacker.Ability] == attacker.Weapon.Name {
			dmg += AbilityPairBonus
		}
	}
	if attacker.District.ID == 2 {
		dmg += DistrictWeaponBonus
	}
	return dmg
}

// ApplyDefense subtracts the target's cumulative defense, floored at 1 so
// an attack in range always registers
func ApplyDefense(dmg int, target *Player) int {
	dmg -= target.Defense
	if dmg < MinDamage {
		dmg = MinDamage
	}
	return dmg
}

// InMeleeRange checks the Euclidean melee distance between two players
func InMeleeRange(a, b *Player) bool {
	return Distance(a.X, a.Y, b.X, b.Y) < MeleeRange
}
