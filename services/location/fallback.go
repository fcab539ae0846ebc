package location

import "kigalimove/models"

func row(province, district, sector, cell, village string) models.Location {
	return models.Location{Province: province, District: district, Sector: sector, Cell: cell, Village: village}
}

// FallbackRows is the bundled slice of the hierarchy served when the
// locations table cannot be read. It also seeds an empty table.
var FallbackRows = []models.Location{
	row("Kigali City", "Gasabo", "Remera", "Rukiri I", "Amahoro"),
	row("Kigali City", "Gasabo", "Remera", "Rukiri I", "Ubumwe"),
	row("Kigali City", "Gasabo", "Remera", "Rukiri II", "Isangano"),
	row("Kigali City", "Gasabo", "Remera", "Nyabisindu", "Urumuri"),
	row("Kigali City", "Gasabo", "Kimironko", "Bibare", "Imena"),
	row("Kigali City", "Gasabo", "Kimironko", "Bibare", "Intwari"),
	row("Kigali City", "Gasabo", "Kimironko", "Kibagabaga", "Kibagabaga"),
	row("Kigali City", "Gasabo", "Kimironko", "Nyagatovu", "Ibuhoro"),
	row("Kigali City", "Gasabo", "Kacyiru", "Kamatamu", "Amajyambere"),
	row("Kigali City", "Gasabo", "Kacyiru", "Kamutwa", "Umutekano"),
	row("Kigali City", "Kicukiro", "Niboye", "Niboye", "Gatare"),
	row("Kigali City", "Kicukiro", "Niboye", "Nyakabanda", "Rebero"),
	row("Kigali City", "Kicukiro", "Kicukiro", "Kicukiro", "Isoko"),
	row("Kigali City", "Kicukiro", "Kicukiro", "Ngoma", "Urugwiro"),
	row("Kigali City", "Kicukiro", "Gikondo", "Kanserege", "Marembo"),
	row("Kigali City", "Kicukiro", "Kagarama", "Muyange", "Amarembo"),
	row("Kigali City", "Nyarugenge", "Nyarugenge", "Kiyovu", "Ingenzi"),
	row("Kigali City", "Nyarugenge", "Nyarugenge", "Biryogo", "Gabiro"),
	row("Kigali City", "Nyarugenge", "Nyamirambo", "Rugarama", "Mumena"),
	row("Kigali City", "Nyarugenge", "Nyamirambo", "Cyivugiza", "Gasharu"),
	row("Kigali City", "Nyarugenge", "Muhima", "Tetero", "Kabeza"),
	row("Northern Province", "Musanze", "Muhoza", "Mpenge", "Kabaya"),
	row("Northern Province", "Musanze", "Muhoza", "Ruhengeri", "Kigombe"),
	row("Northern Province", "Musanze", "Cyuve", "Kabeza", "Gashangiro"),
	row("Northern Province", "Gicumbi", "Byumba", "Gisuna", "Nyarutarama"),
	row("Southern Province", "Huye", "Ngoma", "Butare", "Agakombe"),
	row("Southern Province", "Huye", "Tumba", "Cyimana", "Rango"),
	row("Southern Province", "Muhanga", "Nyamabuye", "Gahogo", "Kavumu"),
	row("Eastern Province", "Rwamagana", "Kigabiro", "Sovu", "Ruhimbi"),
	row("Eastern Province", "Rwamagana", "Kigabiro", "Cyanya", "Kabuga"),
	row("Eastern Province", "Bugesera", "Nyamata", "Nyamata y'Umujyi", "Gasenga"),
	row("Western Province", "Rubavu", "Gisenyi", "Umuganda", "Bugoyi"),
	row("Western Province", "Rubavu", "Gisenyi", "Mbugangari", "Ituze"),
	row("Western Province", "Karongi", "Bwishyura", "Kiniha", "Nyarusanga"),
}
