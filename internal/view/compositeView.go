package view

// CompositeView renders its views in order, then its footers.
type CompositeView struct {
	views   []View
	footers []View
}

func NewCompositeView(views []View) *CompositeView {
	return &CompositeView{views: views}
}

func (cv *CompositeView) AddView(view View) {
	cv.views = append(cv.views, view)
}

func (cv *CompositeView) AddFooter(view View) {
	cv.footers = append(cv.footers, view)
}

func (cv *CompositeView) Render(w int) int {
	totalLines := 0
	for _, view := range cv.views {
		totalLines += view.Render(w)
	}
	for _, footer := range cv.footers {
		totalLines += footer.Render(w)
	}
	return totalLines
}
