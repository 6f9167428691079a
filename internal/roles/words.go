package roles

var firstNames = []string{
	"Ahmet", "Mehmet", "Mustafa", "Ali", "Hüseyin", "Hasan", "İbrahim", "Murat", "Emre", "Burak",
	"Yusuf", "Ömer", "Eren", "Kerem", "Arda", "Can", "Deniz", "Efe", "Berk", "Oğuz",
	"Ayşe", "Fatma", "Zeynep", "Elif", "Emine", "Hatice", "Merve", "Büşra", "Esra", "Selin",
	"Ece", "Defne", "Ceren", "İrem", "Gizem", "Nisa", "Sude", "Ebru", "Yağmur", "Şeyma",
}

var lastNames = []string{
	"Yılmaz", "Kaya", "Demir", "Şahin", "Çelik", "Yıldız", "Yıldırım", "Öztürk", "Aydın", "Özdemir",
	"Arslan", "Doğan", "Kılıç", "Aslan", "Çetin", "Kara", "Koç", "Kurt", "Özkan", "Şimşek",
	"Polat", "Korkmaz", "Erdoğan", "Aksoy", "Güneş", "Tekin", "Ünal", "Avcı", "Bulut", "Turan",
}

var words = []string{
	"deniz", "gece", "yol", "zaman", "rüzgar", "bahçe", "kitap", "şehir", "yıldız", "sessizlik",
	"ışık", "orman", "hikaye", "umut", "dağ", "nehir", "düş", "kuş", "ayna", "kapı",
	"yaz", "kış", "bahar", "sabah", "akşam", "ev", "köprü", "sokak", "harita", "mektup",
	"gölge", "sır", "ada", "liman", "pencere", "yolculuk", "çocuk", "kalp", "bulut", "anı",
}

var categories = []string{
	"Roman", "Bilim", "Çocuk", "Tarih", "Sanat", "Teknoloji", "Felsefe", "Edebiyat", "Psikoloji",
}

var grades = []string{"9", "10", "11", "12", "Hazırlık"}

var emailDomains = []string{"example.com", "example.org", "okul.example.net"}
