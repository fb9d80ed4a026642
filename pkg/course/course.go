package course

type Course struct {
	ID        int
	Name      string
	TeacherID int
}
