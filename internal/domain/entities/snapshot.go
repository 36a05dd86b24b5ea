package entities

// Snapshot tools and the blobs they produce
const (
	MksnapshotTool          = "mksnapshot"
	ContextSnapshotTool     = "v8_context_snapshot_generator"
	SnapshotBlobName        = "snapshot_blob.bin"
	ContextSnapshotBlobName = "v8_context_snapshot.bin"
	BlobPattern             = "*.bin"
)

// Fixture scripts under the fixtures directory
const (
	SnapshotSourceFixture = "testsnap.js"
	SnapshotCheckFixture  = "snapshot-items-available.js"
)

// Blob is a generated snapshot file and where it ended up
type Blob struct {
	Name     string `json:"name"`
	Source   string `json:"source"`
	Path     string `json:"path"`
	Checksum string `json:"sha256,omitempty"`
}
