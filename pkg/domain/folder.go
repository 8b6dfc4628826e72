package domain

type Folder struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

func (f Folder) IsReserved() bool {
	return f.Id == UnassignedFolderID
}

// FindFolderByName returns the folder whose name equals name exactly.
// Names are case-sensitive.
func FindFolderByName(folders []Folder, name string) (Folder, bool) {
	for _, f := range folders {
		if f.Name == name {
			return f, true
		}
	}
	return Folder{}, false
}

func FindFolderByID(folders []Folder, id string) (Folder, bool) {
	for _, f := range folders {
		if f.Id == id {
			return f, true
		}
	}
	return Folder{}, false
}

// CategoryNames lists the names of every non-reserved folder, preserving order.
func CategoryNames(folders []Folder) []string {
	names := make([]string, 0, len(folders))
	for _, f := range folders {
		if f.IsReserved() {
			continue
		}
		names = append(names, f.Name)
	}
	return names
}
