package districts

import (
	"fmt"
	"sort"
)

// Group identifies which set of districts an internal id belongs to.
// Values follow the telephone codes of the two regions.
type Group int

const (
	GroupCity   Group = 812 // Saint Petersburg
	GroupRegion Group = 813 // Leningrad oblast
)

// CenterID is the internal id of the capital centre ("no district selected").
const CenterID = 0

// District is immutable reference data for one tracked area.
type District struct {
	ProviderID int     `json:"owm_id"`
	NameEN     string  `json:"geoname_en"`
	NameRU     string  `json:"geoname_ru"`
	Lon        float64 `json:"lon"`
	Lat        float64 `json:"lat"`
	Group      Group   `json:"group_code"`
}

// internal id -> OpenWeatherMap city id, per group.
var providerIDs = map[Group]map[int]int{
	GroupCity: {
		0: 536203,
	},
	GroupRegion: {
		0:  536203, // Санкт-Петербург (центр)
		1:  575410, // Бокситогорский район
		2:  561887, // Гатчинский район
		3:  548602, // Кингисеппский район
		4:  548442, // Киришский район
		5:  548392, // Кировский район
		6:  534560, // Лодейнопольский район
		7:  534341, // Ломоносовский район
		8:  533690, // Лужский район
		9:  508034, // Подпорожский район
		10: 505230, // Приозерский район
		11: 492162, // Сланцевский район
		12: 490172, // Сосновоборский округ
		13: 483019, // Тихвинский район
		14: 481964, // Тосненский район
		15: 472722, // Волховский район
		16: 472357, // Волосовский район
		17: 471101, // Всеволожский район
		18: 470546, // Выборгский район
	},
}

// Declaration order is the order All returns.
var all = []District{
	{ProviderID: 536203, NameEN: "Sankt-Peterburg", NameRU: "Санкт-Петербург", Lon: 30.25, Lat: 59.916668, Group: GroupCity},
	{ProviderID: 575410, NameEN: "Boksitogorsk", NameRU: "Бокситогорский район", Lon: 33.84853, Lat: 59.474049, Group: GroupRegion},
	{ProviderID: 561887, NameEN: "Gatchina", NameRU: "Гатчинский район", Lon: 30.12833, Lat: 59.576389, Group: GroupRegion},
	{ProviderID: 548602, NameEN: "Kingisepp", NameRU: "Кингисеппский район", Lon: 28.61343, Lat: 59.37331, Group: GroupRegion},
	{ProviderID: 548442, NameEN: "Kirishi", NameRU: "Киришский район", Lon: 32.020489, Lat: 59.447121, Group: GroupRegion},
	{ProviderID: 548392, NameEN: "Kirovsk", NameRU: "Кировский район", Lon: 30.99507, Lat: 59.881008, Group: GroupRegion},
	{ProviderID: 534560, NameEN: "Lodeynoye Pole", NameRU: "Лодейнопольский район", Lon: 33.553059, Lat: 60.726002, Group: GroupRegion},
	{ProviderID: 534341, NameEN: "Lomonosov", NameRU: "Ломоносовский район", Lon: 29.77253, Lat: 59.90612, Group: GroupRegion},
	{ProviderID: 533690, NameEN: "Luga", NameRU: "Лужский район", Lon: 29.84528, Lat: 58.737221, Group: GroupRegion},
	{ProviderID: 508034, NameEN: "Podporozhye", NameRU: "Подпорожский район", Lon: 34.170639, Lat: 60.91124, Group: GroupRegion},
	{ProviderID: 505230, NameEN: "Priozersk", NameRU: "Приозерский район", Lon: 30.12907, Lat: 61.03928, Group: GroupRegion},
	{ProviderID: 492162, NameEN: "Slantsy", NameRU: "Сланцевский район", Lon: 28.09137, Lat: 59.118172, Group: GroupRegion},
	{ProviderID: 490172, NameEN: "Sosnovyy Bor", NameRU: "Сосновоборский округ", Lon: 29.116671, Lat: 59.900002, Group: GroupRegion},
	{ProviderID: 483019, NameEN: "Tikhvin", NameRU: "Тихвинский район", Lon: 33.599369, Lat: 59.645111, Group: GroupRegion},
	{ProviderID: 481964, NameEN: "Tosno", NameRU: "Тосненский район", Lon: 30.877501, Lat: 59.540001, Group: GroupRegion},
	{ProviderID: 472722, NameEN: "Volhov", NameRU: "Волховский район", Lon: 32.338188, Lat: 59.9258, Group: GroupRegion},
	{ProviderID: 471101, NameEN: "Vsevolozhsk", NameRU: "Всеволожский район", Lon: 30.637159, Lat: 60.020432, Group: GroupRegion},
	{ProviderID: 472357, NameEN: "Volosovo", NameRU: "Волосовский район", Lon: 29.48, Lat: 59.45, Group: GroupRegion},
	{ProviderID: 470546, NameEN: "Vyborg", NameRU: "Выборгский район", Lon: 28.752831, Lat: 60.70763, Group: GroupRegion},
}

var byProviderID = func() map[int]District {
	m := make(map[int]District, len(all))
	for _, d := range all {
		m[d.ProviderID] = d
	}
	return m
}()

// ProviderID maps an internal district id of the given group to its provider id.
func ProviderID(group Group, id int) (int, bool) {
	ids, ok := providerIDs[group]
	if !ok {
		return 0, false
	}
	pid, ok := ids[id]
	return pid, ok
}

// ByProviderID returns the metadata for a provider id.
func ByProviderID(pid int) (District, bool) {
	d, ok := byProviderID[pid]
	return d, ok
}

// MustByProviderID is like ByProviderID but panics for ids missing from the table.
func MustByProviderID(pid int) District {
	d, ok := byProviderID[pid]
	if !ok {
		panic(fmt.Sprintf("districts: unknown provider id %d", pid))
	}
	return d
}

// All returns every tracked district, capital first.
func All() []District {
	out := make([]District, len(all))
	copy(out, all)
	return out
}

// RegionIDs returns the internal ids of the oblast group in ascending order, centre included.
func RegionIDs() []int {
	ids := make([]int, 0, len(providerIDs[GroupRegion]))
	for id := range providerIDs[GroupRegion] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
