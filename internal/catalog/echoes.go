package catalog

import "fmt"

// Echo is a short romantic text fragment reward. Ids start at 0 and match
// the voice archive file numbering.
type Echo struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// voiceArchiveBase is the default host for pre-narrated echo assets.
const voiceArchiveBase = "https://raw.githubusercontent.com/arcyniiegas/elysium-voice-archive2/main"

var echoTexts = []string{
	"Aš myliu tavo gebėjimą suprasti, įsijausti ir priimti mane net tuomet, kai man sunku priimti save patį. Aš esu tau amžinai dėkingas už tavo supratingumą ir gebėjimą atjausti bei priimti mane tokį, koks esu.",
	"Aš myliu tavo rūpestį ir paslaugumą. Ne kaip pareigą, o kaip natūralią tavo savybę. Aš myliu, kad pastebi dalykus dar jiems netapus problema ir spręndi juos nesitikėdamas sulaukti tokio paties atsako.",
	"Joker korta – tu gali užduoti man vieną klausimą, į kurį aš prisiekiu atsakyti nuoširdžiai ir atvirai. Aboot bet ką.",
	"Aš myliu tavo gebėjimą pastebėti mano vidines subtilybes, kurių pats galbūt neįvardinu, ir reaguoti į jas taip, kad jaučiu tavo supratimą be žodžių.",
	"Aš myliu tavo gebėjimą priimti mano klaidas taip, kad jos tampa mūsų bendra patirtimi, o ne priežastimi konfliktui. Tai leidžia man būti užtikrintu, kad esame komanda ir palaikome vienas kidą.",
	"Aš myliu tavo gebėjimą susilaikyti nuo vertinimų ir patarimų, kai man reikia atrasti atsakymą pačiam. Tavo buvimas šalia netikrinant ir nevadovaujant suteikia man galimybę pasitikėti savo sprendimais.",
	"Aš myliu tavo kantrybę, kai mūsų santykiai reikalauja kompromisų ar prisitaikymo. Tu sugebėjai išmokyti mane, kad tikra meilė nėra apie manipuliaciją ar pergalę, o apie nuoseklų buvimą šalia, net kai tai nepatogu ar sunku.",
	"Aš myliu tavo kantrybę, kuomet bandome naujus dalykus, nes ji leidžia man klaidžioti, klysti ir atrasti save be baimės būti vertinamam.",
	"Aš myliu tavo gebėjimą būti pažeidžiamu, nes tai kuria pasitikėjimą, kuriame nereikia slėptis ar apsimetinėti stipresniu, nei esi.",
	"Joker korta – užduok man nedidelį iššūkį ir stebėk, kaip aš jį įgyvendinu.",
	"Aš myliu tai, kaip tavo ramus protas nuramina mano chaotiškas mintis, o šilta širdis sušildo mano abejojančią sielą. Aš myliu, kad sugebi pajusti, ko man reikia, ir atsakyti taip, kad jaučiuosi suprastas ir palaikomas.",
	"Aš myliu tavo gerumą – man ir visam likusiam pasauliui. Aš myliu tavo drąsą būti švelniu pasaulyje, kuris nuolat reikalauja smurto.",
	"Aš myliu tavo užsispyrimą kurti bendrą ateitį nepaisant visko. Tavo ramybė ir abejonių nebuvimas daro mane drąsesnį kalbėti, planuoti ir įsitraukti, nes žinau, kad tai bus daroma sąžiningai ir kartu.",
	"Aš myliu tave už tai, kad šalia tavęs galiu būti toks, koks esu, nepaslėpdamas nei baimių, nei svajonių, ir tai daro mane visavertį.",
	"Joker korta – paprašyk manęs prisiminti vieną mūsų bendrą akimirką ir aš pasakysiu, k tuomet tikrai galvojau ar jaučiau.",
	"Joker korta – užduok man provokuojantį klausimą. Be ribų, be užuolankų, be gėdos.",
	"Aš myliu tavo ištikimybę savo žodžiams ir veiksmams, kurie nesikeičia net tuomet, kai tai tampa labai nepatogu. Tavo pastovumas man suteikia saugumą, kurio niekas kitas negali duoti.",
	"Aš myliu tavo gebėjimą pamiršti save tam, kad suprastum mane, bet vis tiek išlikti ištikimu sau. Aš labai vertinu tavo altruizmą tokiose akimirkose, nes jos parodo tavo jausmų tikrumą.",
	"Aš myliu tavo gebėjimą suprasti, įsijausti ir priimti mane net tuomet, kai man sunku priimti save patį. Aš esu tau amžinai dėkingas už tavo supratingumą ir gebėjimą atjausti bei priimti mane tokį, koks esu.",
	"Aš myliu tavo besąlygišką meilę. Ne kaip pažadą ar deklaraciją, o kaip pastovų buvimą mano gyvenime. Ji nereikalauja iš manęs būti stipresniu ar patogesniu. Aš ją jaučiu ir tada, kai viskas gerai, ir tada, kai pats savimi abejoju.",
}

// EchoByID looks up an echo by its catalog id.
func EchoByID(id int) (Echo, bool) {
	if id < 0 || id >= len(echoTexts) {
		return Echo{}, false
	}
	return Echo{ID: id, Text: echoTexts[id]}, true
}

// EchoCount returns the number of echoes in the catalog.
func EchoCount() int {
	return len(echoTexts)
}

// VoiceArchiveURL returns the pre-narrated asset URL for an echo, if the
// archive covers that id.
func VoiceArchiveURL(id int) (string, bool) {
	if id < 0 || id >= len(echoTexts) {
		return "", false
	}
	return fmt.Sprintf("%s/elysium_reason_%d.webm", voiceArchiveBase, id), true
}
