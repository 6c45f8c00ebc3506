package testsupport

import (
	"testing"

	"setlist/internal/storage"
)

// SongTable is a small song table covering every voice and origin spelling
// family.
const SongTable = "Title,Artist,Voice,Origin\n" +
	"Evidencias,Chitaozinho e Xororo,dueto,nacional\n" +
	"Sozinho,Caetano Veloso,m,br\n" +
	"Zombie,The Cranberries,feminina,internacional\n"

// WriteBlobs stores each name/body pair in store.
func WriteBlobs(t testing.TB, store storage.Store, blobs map[string]string) {
	t.Helper()
	for name, body := range blobs {
		if err := store.Write(name, []byte(body)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

// SeedCatalog writes the song table and one placeholder presentation per
// "Title-Artist" stem.
func SeedCatalog(t testing.TB, store storage.Store, table string, stems ...string) {
	t.Helper()
	blobs := map[string]string{"song_table.csv": table}
	for _, stem := range stems {
		blobs[stem+".ppsx"] = "ppsx"
	}
	WriteBlobs(t, store, blobs)
}
