package savestate

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// migration rewrites a raw save in place of an older layout
type migration struct {
	name  string
	apply func(data []byte) ([]byte, error)
}

var migrations = []migration{
	{"default settings", setIfMissing("settings", `{"useImagen":true}`)},
	{"empty log", setIfMissing("log", `[]`)},
	{"null combat", setIfMissing("combatState", `null`)},
	{"empty equipment", setIfMissing("player.equipment", `{}`)},
	{"empty abilities", setIfMissing("player.abilities", `[]`)},
	{"empty inventory", setIfMissing("player.inventory", `[]`)},
	{"zero gold", setIfMissing("player.gold", `0`)},
	{"pending level-ups", migratePendingLevelUps},
	{"empty vendors", setIfMissing("world.vendors", `[]`)},
	{"empty monsters", setIfMissing("world.monsters", `[]`)},
	{"item quantities", migrateQuantities},
}

func setIfMissing(path, raw string) func([]byte) ([]byte, error) {
	return func(data []byte) ([]byte, error) {
		if gjson.GetBytes(data, path).Exists() {
			return data, nil
		}
		return sjson.SetRawBytes(data, path, []byte(raw))
	}
}

// migratePendingLevelUps replaces the boolean flag older saves carried
func migratePendingLevelUps(data []byte) ([]byte, error) {
	legacy := gjson.GetBytes(data, "player.hasPendingLevelUp")
	if !gjson.GetBytes(data, "player.pendingLevelUps").Exists() {
		pending := 0
		if legacy.Bool() {
			pending = 1
		}
		var err error
		if data, err = sjson.SetBytes(data, "player.pendingLevelUps", pending); err != nil {
			return nil, err
		}
	}
	if legacy.Exists() {
		return sjson.DeleteBytes(data, "player.hasPendingLevelUp")
	}
	return data, nil
}

// migrateQuantities gives every item without a quantity a quantity of one
func migrateQuantities(data []byte) ([]byte, error) {
	var paths []string
	collect := func(list string) {
		n := int(gjson.GetBytes(data, list+".#").Int())
		for i := 0; i < n; i++ {
			paths = append(paths, fmt.Sprintf("%s.%d", list, i))
		}
	}

	collect("player.inventory")
	vendors := int(gjson.GetBytes(data, "world.vendors.#").Int())
	for v := 0; v < vendors; v++ {
		collect(fmt.Sprintf("world.vendors.%d.inventory", v))
	}
	gjson.GetBytes(data, "player.equipment").ForEach(func(slot, item gjson.Result) bool {
		if item.IsObject() {
			paths = append(paths, "player.equipment."+slot.String())
		}
		return true
	})

	var err error
	for _, p := range paths {
		if gjson.GetBytes(data, p+".quantity").Exists() {
			continue
		}
		if data, err = sjson.SetBytes(data, p+".quantity", 1); err != nil {
			return nil, err
		}
	}
	return data, nil
}
