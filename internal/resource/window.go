package resource

// WindowSize es la cantidad de páginas visibles en el paginador.
const WindowSize = 5

// PageWindow devuelve las páginas contiguas a mostrar alrededor de current.
// Cerca del final se corre hacia atrás para mantener w páginas.
func PageWindow(current, totalPages, w int) []int {
	if totalPages <= 0 || w <= 0 {
		return []int{}
	}
	start := max(1, current-w/2)
	end := min(totalPages, start+w-1)
	if end-start+1 < w {
		start = max(1, end-w+1)
	}
	if end < start {
		return []int{}
	}
	out := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		out = append(out, p)
	}
	return out
}

// TotalPages = ceil(total / pageSize); 0 si no hay registros.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
