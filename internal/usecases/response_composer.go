package usecases

import "strings"

// defaultTemplates carries the bot's static reply texts. The mixed
// Indonesian/English wording is intentional and matches what senders see
// in production.
var defaultTemplates = map[string]string{
	"welcome":          "Selamat datang di Bot Appeal kami! 👋\n\nSaya siap membantu Anda dengan:\n• Membuat appeal baru\n• Cek status appeal\n• Eskalasi kasus\n\nAda yang bisa saya bantu?",
	"help":             "📋 Cara Menggunakan Bot Appeal:\n\n1️⃣ Ketik 'appeal' untuk buat appeal baru\n2️⃣ Ketik 'status' untuk cek status appeal\n3️⃣ Kirim dokumen/foto untuk lampiran\n4️⃣ Ketik 'escalate' jika urgent\n\nBagaimana?",
	"menu":             "📱 Pilih opsi:\n\n1️⃣ Buat Appeal Baru\n2️⃣ Cek Status Appeal\n3️⃣ Bantuan\n4️⃣ Hubungi Admin\n\nBalas dengan angka (1-4)",
	"ask_category":     "📁 Kategori apa? (account/billing/technical/service/other)",
	"ask_subject":      "📝 Judul/subject appeal?",
	"ask_description":  "📄 Jelaskan detail masalah Anda:",
	"appeal_created":   "✅ Appeal berhasil dibuat!\n\n📌 ID Appeal: {appeal_id}\n📁 Kategori: {category}\n⏰ Status: {status}\n\nTim kami akan meninjau dalam 24 jam.",
	"status_check":     "📊 Status Appeal Anda:\n\n📌 ID: {appeal_id}\n📁 Kategori: {category}\n⏰ Status: {status}\n🔄 Diperbarui: {updated_at}",
	"no_appeals":       "📭 Anda belum membuat appeal apapun.",
	"no_active_appeal": "❌ Belum ada appeal yang aktif.",
	"info_added":       "✅ Informasi/lampiran ditambahkan ke appeal {appeal_id}",
	"escalated":        "⚠️ Appeal {appeal_id} telah dieskalasi ke tim senior.",
	"closed":           "✅ Appeal {appeal_id} telah ditutup.",
	"cancelled":        "❌ Dibatalkan. Ketik apapun untuk mulai lagi.",
	"invalid_input":    "❌ Input tidak valid. Mohon ulangi atau ketik 'help' untuk panduan.",
	"rate_limited":     "🐢 Terlalu banyak pesan. Mohon tunggu sebentar lalu coba lagi.",
	"error":            "⚠️ Terjadi kesalahan. Silakan coba lagi.",
}

// ResponseComposer renders replies from named templates with {placeholder}
// bindings. Lookup of an unknown name falls back to the error template, and
// a placeholder with no binding is left as literal text: rendering never
// fails. Callers rely on that leniency, do not tighten it.
type ResponseComposer struct {
	templates map[string]string
}

func NewResponseComposer() *ResponseComposer {
	return &ResponseComposer{templates: defaultTemplates}
}

// NewResponseComposerWith overrides or extends the default template table.
func NewResponseComposerWith(overrides map[string]string) *ResponseComposer {
	templates := make(map[string]string, len(defaultTemplates)+len(overrides))
	for name, text := range defaultTemplates {
		templates[name] = text
	}
	for name, text := range overrides {
		templates[name] = text
	}
	return &ResponseComposer{templates: templates}
}

func (r *ResponseComposer) Render(name string, bindings map[string]string) string {
	template, ok := r.templates[name]
	if !ok {
		template = r.templates["error"]
	}
	out := template
	for key, value := range bindings {
		out = strings.ReplaceAll(out, "{"+key+"}", value)
	}
	return out
}
