package catalog

// Relic is a real-world outing reward revealed by the wheel.
type Relic struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	TicketURL   string `json:"ticketUrl"`
}

var relics = []Relic{
	{
		ID:          1,
		Name:        "Inhotim",
		Description: "A place where art breathes among the trees. Our first stop on this journey into beauty.",
		Image:       "https://images.unsplash.com/photo-1582555172866-f73bb12a2ab3?auto=format&fit=crop&q=80&w=1000",
		TicketURL:   "https://www.inhotim.org.br/",
	},
	{
		ID:          2,
		Name:        "Museum of Tomorrow",
		Description: "A science museum exploring the possibilities of the future. Let us look together at what is yet to come.",
		Image:       "https://images.unsplash.com/photo-1544413647-79599554707c?auto=format&fit=crop&q=80&w=1000",
		TicketURL:   "https://museudoamanha.org.br/",
	},
	{
		ID:          3,
		Name:        "Ricardo Brennand Institute",
		Description: "A castle in the middle of a modern world. A reminder that our love is a story worthy of knightly legends.",
		Image:       "https://images.unsplash.com/photo-1590073844006-33379778ae09?auto=format&fit=crop&q=80&w=1000",
		TicketURL:   "https://www.institutoricardobrennand.org.br/",
	},
	{
		ID:          4,
		Name:        "Oscar Niemeyer Museum",
		Description: "The 'Eye' of Curitiba. An architectural masterpiece that watches the world as curiously as I watch you.",
		Image:       "https://images.unsplash.com/photo-1518998053574-53ee796d7ec2?auto=format&fit=crop&q=80&w=1000",
		TicketURL:   "https://www.museuoscarniemeyer.org.br/",
	},
	{
		ID:          5,
		Name:        "Our Dinner. My Gift.",
		Description: "The final relic. No walls, no museums – just us. Wherever you wish, I will take you there.",
		Image:       "https://images.unsplash.com/photo-1516062423079-7ca13cdc7f5a?auto=format&fit=crop&q=80&w=1000",
		TicketURL:   "#",
	},
}

// RelicByID looks up a relic by its catalog id.
func RelicByID(id int) (Relic, bool) {
	for _, r := range relics {
		if r.ID == id {
			return r, true
		}
	}
	return Relic{}, false
}

// Relics returns the full relic catalog in id order.
func Relics() []Relic {
	out := make([]Relic, len(relics))
	copy(out, relics)
	return out
}

// RelicCount returns the number of relics in the catalog.
func RelicCount() int {
	return len(relics)
}
