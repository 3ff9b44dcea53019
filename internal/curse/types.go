package curse

// Hash algorithm codes used by the CurseForge v1 API.
const (
	AlgoSHA1 = 1
	AlgoMD5  = 2
)

// Well-known CurseForge identifiers.
const (
	GameIDMinecraft = 432
)

// File is one distributable build of a mod as reported by the catalog.
type File struct {
	ID               int        `json:"id"`
	ModID            int        `json:"modId"`
	FileName         string     `json:"fileName"`
	DisplayName      string     `json:"displayName"`
	FileDate         string     `json:"fileDate"`
	FileLength       int64      `json:"fileLength"`
	DownloadURL      string     `json:"downloadUrl"`
	IsServerPack     bool       `json:"isServerPack"`
	ServerPackFileID int        `json:"serverPackFileId"`
	Hashes           []FileHash `json:"hashes"`
	GameVersions     []string   `json:"gameVersions"`
}

// FileHash is a single (algorithm, value) pair attached to a File.
type FileHash struct {
	Value string `json:"value"`
	Algo  int    `json:"algo"`
}

// SHA1 returns the file's SHA-1 hash, if the catalog published one.
func (f *File) SHA1() (string, bool) {
	for _, h := range f.Hashes {
		if h.Algo == AlgoSHA1 {
			return h.Value, true
		}
	}
	return "", false
}

// Mod is the catalog's description of a mod or modpack.
type Mod struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Summary string   `json:"summary"`
	GameID  int      `json:"gameId"`
	ClassID int      `json:"classId"`
	Authors []Author `json:"authors"`
}

// Author is a mod author entry.
type Author struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// AuthorName returns the first listed author, or "Unknown".
func (m *Mod) AuthorName() string {
	if len(m.Authors) > 0 {
		return m.Authors[0].Name
	}
	return "Unknown"
}

// Pagination describes a paged file listing.
type Pagination struct {
	Index       int `json:"index"`
	PageSize    int `json:"pageSize"`
	ResultCount int `json:"resultCount"`
	TotalCount  int `json:"totalCount"`
}

// Response envelopes: every endpoint wraps its payload in a "data" field.
type modResponse struct {
	Data Mod `json:"data"`
}

type fileResponse struct {
	Data File `json:"data"`
}

type filesResponse struct {
	Data       []File     `json:"data"`
	Pagination Pagination `json:"pagination"`
}
