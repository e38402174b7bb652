package maze

import (
	"fmt"
	"image"
	"image/color"

	"github.com/yalue/image_utils"
)

// The number of pixels across, in a square cell. Must be odd and at least 9.
const cellPixels = 15

// The width and height of the start and end arrows, in pixels.
const arrowLength = 16

var (
	wallColor       = color.Black
	backgroundColor = color.White
	firstPathColor  = color.RGBA{R: 60, G: 90, B: 230, A: 255}
	secondPathColor = color.RGBA{R: 30, G: 190, B: 60, A: 255}
	obstacleColor   = color.RGBA{R: 170, G: 0, B: 170, A: 255}
	sourceColor     = color.RGBA{R: 40, G: 180, B: 70, A: 255}
	destColor       = color.RGBA{R: 100, G: 120, B: 255, A: 255}
)

// The parts of a maze needed to draw it. *Grid satisfies this interface.
type MazeView interface {
	Rows() int
	Cols() int
	// Must return true for the outer edges of the maze.
	HasWall(c Coord, dir Direction) bool
	IsObstacle(c Coord) bool
}

// Everything drawn on top of the maze's walls. Either path may be nil.
type Scene struct {
	FirstPath  Path
	SecondPath Path
	Endpoints  Endpoints
	Obstacles  []Coord
}

// Tracks what needs to be drawn in a single cell.
type cellMarks struct {
	onFirst  bool
	onSecond bool
	obstacle bool
	// Indexed by Direction, these are true if the path continues into the
	// neighboring cell.
	firstLinks  [4]bool
	secondLinks [4]bool
}

// Satisfies the image.Image interface, drawing a maze along with its paths
// and obstacles. Create using NewSceneImage.
type sceneImage struct {
	view  MazeView
	rows  int
	cols  int
	marks []cellMarks
}

// Returns the direction from a to b if they're next to each other.
func directionTo(a, b Coord) (Direction, bool) {
	for _, d := range neighborOrder {
		if a.Step(d) == b {
			return d, true
		}
	}
	return 0, false
}

func (s *sceneImage) inBounds(c Coord) bool {
	return (c.Row >= 0) && (c.Col >= 0) && (c.Row < s.rows) && (c.Col < s.cols)
}

// Sets the path's marks in each cell it passes through. Consecutive
// coordinates that aren't adjacent are simply not joined.
func (s *sceneImage) markPath(p Path, second bool) {
	for i, c := range p {
		if !s.inBounds(c) {
			continue
		}
		m := &(s.marks[c.Row*s.cols+c.Col])
		if second {
			m.onSecond = true
		} else {
			m.onFirst = true
		}
		if i == 0 {
			continue
		}
		prev := p[i-1]
		d, ok := directionTo(prev, c)
		if !ok || !s.inBounds(prev) {
			continue
		}
		pm := &(s.marks[prev.Row*s.cols+prev.Col])
		if second {
			pm.secondLinks[d] = true
			m.secondLinks[d.Opposite()] = true
		} else {
			pm.firstLinks[d] = true
			m.firstLinks[d.Opposite()] = true
		}
	}
}

// Returns an image of the maze's walls, with the first path drawn as a thick
// blue line, the second path as a thin green line, and obstacles drawn as
// magenta crosses.
func NewSceneImage(view MazeView, scene Scene) image.Image {
	toReturn := &sceneImage{
		view:  view,
		rows:  view.Rows(),
		cols:  view.Cols(),
		marks: make([]cellMarks, view.Rows()*view.Cols()),
	}
	for i := range toReturn.marks {
		c := Coord{Row: i / toReturn.cols, Col: i % toReturn.cols}
		toReturn.marks[i].obstacle = view.IsObstacle(c)
	}
	for _, c := range scene.Obstacles {
		if toReturn.inBounds(c) {
			toReturn.marks[c.Row*toReturn.cols+c.Col].obstacle = true
		}
	}
	toReturn.markPath(scene.FirstPath, false)
	toReturn.markPath(scene.SecondPath, true)
	return toReturn
}

func (s *sceneImage) ColorModel() color.Model {
	return color.RGBAModel
}

func (s *sceneImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.cols*cellPixels, s.rows*cellPixels)
}

// Takes an integer, 0 through 3, corresponding to the top-left, top-right,
// bottom-right, and bottom-left corners. Returns false only if both walls
// adjacent to the corner are clear.
func cornerSet(walls *[4]bool, n int) bool {
	if (n < 0) || (n > 3) {
		return true
	}
	if n == 3 {
		return walls[3] || walls[0]
	}
	return walls[n] || walls[n+1]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Returns true if the pixel at x, y within a cell falls on a line from the
// cell's center in any of the linked directions. halfWidth is the number of
// pixels on either side of the line's center.
func onLine(x, y, halfWidth int, links *[4]bool) bool {
	center := cellPixels / 2
	if (abs(x-center) <= halfWidth) && (abs(y-center) <= halfWidth) {
		return true
	}
	if abs(y-center) <= halfWidth {
		if links[Left] && (x <= center) {
			return true
		}
		if links[Right] && (x >= center) {
			return true
		}
	}
	if abs(x-center) <= halfWidth {
		if links[Up] && (y <= center) {
			return true
		}
		if links[Down] && (y >= center) {
			return true
		}
	}
	return false
}

// Returns true if the pixel at x, y within a cell is part of an obstacle's
// cross.
func onCross(x, y int) bool {
	if (x < 3) || (y < 3) || (x > (cellPixels - 4)) || (y > (cellPixels - 4)) {
		return false
	}
	return (x == y) || (x+y == (cellPixels - 1))
}

// Returns the color of the pixel at x, y in the cell at c.
func (s *sceneImage) cellAt(c Coord, x, y int) color.Color {
	var walls [4]bool
	for d := range walls {
		walls[d] = s.view.HasWall(c, Direction(d))
	}
	last := cellPixels - 1
	// Corners are drawn if either adjacent wall is set.
	if (x == 0) && (y == 0) && cornerSet(&walls, 0) {
		return wallColor
	}
	if (x == last) && (y == 0) && cornerSet(&walls, 1) {
		return wallColor
	}
	if (x == last) && (y == last) && cornerSet(&walls, 2) {
		return wallColor
	}
	if (x == 0) && (y == last) && cornerSet(&walls, 3) {
		return wallColor
	}
	if ((x == 0) && walls[Left]) || ((y == 0) && walls[Up]) ||
		((x == last) && walls[Right]) || ((y == last) && walls[Down]) {
		return wallColor
	}
	m := &(s.marks[c.Row*s.cols+c.Col])
	if m.obstacle && onCross(x, y) {
		return obstacleColor
	}
	if m.onSecond && onLine(x, y, 0, &m.secondLinks) {
		return secondPathColor
	}
	if m.onFirst && onLine(x, y, 1, &m.firstLinks) {
		return firstPathColor
	}
	return backgroundColor
}

func (s *sceneImage) At(x, y int) color.Color {
	if (x < 0) || (y < 0) || (x >= s.cols*cellPixels) ||
		(y >= s.rows*cellPixels) {
		return color.Transparent
	}
	// We delegate drawing of each pixel to the cell it falls into.
	c := Coord{Row: y / cellPixels, Col: x / cellPixels}
	return s.cellAt(c, x%cellPixels, y%cellPixels)
}

// Satisfies the Image interface, surrounds an image with a solid-color border.
type imageBorder struct {
	pic         image.Image
	picBounds   image.Rectangle
	borderWidth int
	fillColor   color.Color
}

func (b *imageBorder) ColorModel() color.Model {
	return b.pic.ColorModel()
}

func (b *imageBorder) Bounds() image.Rectangle {
	tmp := b.picBounds
	w := b.borderWidth * 2
	return image.Rect(0, 0, tmp.Dx()+w, tmp.Dy()+w)
}

func (b *imageBorder) At(x, y int) color.Color {
	tmp := b.picBounds
	if (x < b.borderWidth) || (y < b.borderWidth) {
		return b.fillColor
	}
	if (x >= tmp.Dx()+b.borderWidth) || (y >= tmp.Dy()+b.borderWidth) {
		return b.fillColor
	}
	return b.pic.At(x-b.borderWidth+tmp.Min.X, y-b.borderWidth+tmp.Min.Y)
}

// Returns a new image, consisting of the given image surrounded by a border
// with the given width in pixels.
func AddImageBorder(pic image.Image, width int, fill color.Color) image.Image {
	return &imageBorder{
		pic:         pic,
		picBounds:   pic.Bounds(),
		borderWidth: width,
		fillColor:   fill,
	}
}

func getArrowForDirection(dir Direction, arrowColor color.Color) image.Image {
	switch dir {
	case Up:
		return image_utils.UpArrow(arrowColor)
	case Left:
		return image_utils.LeftArrow(arrowColor)
	case Down:
		return image_utils.DownArrow(arrowColor)
	}
	return image_utils.RightArrow(arrowColor)
}

// Returns an arrow pointing in the given direction, with a white center.
func getOutlinedArrow(dir Direction, arrowColor color.Color) image.Image {
	outerArrow := image_utils.ResizeImage(getArrowForDirection(dir,
		arrowColor), arrowLength, arrowLength)
	innerArrow := image_utils.ResizeImage(getArrowForDirection(dir,
		color.White), arrowLength/2, arrowLength/2)
	toReturn := image_utils.NewCompositeImage()
	toReturn.AddImage(outerArrow, image.Pt(0, 0))
	toReturn.AddImage(innerArrow, image.Pt(arrowLength/4, arrowLength/4))
	return image_utils.ToRGBA(toReturn)
}

// If the tip of the arrow is supposed to be at the given pt (or the tail of
// the arrow, if "away" is true), this returns the top-left where the square
// image returned by getOutlinedArrow should be drawn.
func getArrowTopLeft(pt image.Point, dir Direction, away bool) image.Point {
	halfLength := arrowLength / 2
	switch dir {
	case Left:
		if away {
			return image.Pt(pt.X-arrowLength-1, pt.Y-halfLength)
		}
		return image.Pt(pt.X+1, pt.Y-halfLength)
	case Up:
		if away {
			return image.Pt(pt.X-halfLength, pt.Y-arrowLength-1)
		}
		return image.Pt(pt.X-halfLength, pt.Y+1)
	case Right:
		if away {
			return image.Pt(pt.X+1, pt.Y-halfLength)
		}
		return image.Pt(pt.X-arrowLength-1, pt.Y-halfLength)
	}
	// Pointing down
	if away {
		return image.Pt(pt.X-halfLength, pt.Y+1)
	}
	return image.Pt(pt.X-halfLength, pt.Y-arrowLength-1)
}

// Returns the direction pointing out of the maze from a cell on the given
// side.
func outwardDirection(s Side) Direction {
	switch s {
	case Top:
		return Up
	case Bottom:
		return Down
	case LeftSide:
		return Left
	}
	return Right
}

// Returns the point in the middle of the cell's outer edge in the given
// direction, offset by the width of the border around the maze.
func edgeMidpoint(c Coord, dir Direction, border int) image.Point {
	x := border + c.Col*cellPixels
	y := border + c.Row*cellPixels
	center := cellPixels / 2
	switch dir {
	case Left:
		return image.Pt(x, y+center)
	case Up:
		return image.Pt(x+center, y)
	case Right:
		return image.Pt(x+cellPixels-1, y+center)
	}
	return image.Pt(x+center, y+cellPixels-1)
}

// Satisfied by image_utils' composite images.
type imageCompositor interface {
	AddImage(pic image.Image, offset image.Point) error
}

// Adds an arrow at the border cell c, either pointing into the maze or away
// from it. Does nothing if c isn't on the border.
func addEndpointArrow(pic imageCompositor, view MazeView, c Coord,
	away bool, arrowColor color.Color, border int) error {
	sides := BorderSides(view.Rows(), view.Cols(), c)
	if len(sides) == 0 {
		return nil
	}
	out := outwardDirection(sides[0])
	pt := edgeMidpoint(c, out, border)
	dir := out.Opposite()
	if away {
		dir = out
	}
	e := pic.AddImage(getOutlinedArrow(dir, arrowColor),
		getArrowTopLeft(pt, dir, away))
	if e != nil {
		return fmt.Errorf("Error adding arrow at %s: %w", c, e)
	}
	return nil
}

// Draws the scene, surrounded by a white border, with a green arrow leading
// into the source and a blue arrow leading out of the destination.
func RenderScene(view MazeView, scene Scene) (*image.RGBA, error) {
	if (view.Rows() < 1) || (view.Cols() < 1) {
		return nil, fmt.Errorf("Can't draw a %dx%d maze", view.Rows(),
			view.Cols())
	}
	border := arrowLength + 2
	mazePic := AddImageBorder(NewSceneImage(view, scene), border,
		backgroundColor)
	decorated := image_utils.NewCompositeImage()
	e := decorated.AddImage(image_utils.ToRGBA(mazePic), image.Pt(0, 0))
	if e != nil {
		return nil, fmt.Errorf("Error setting base maze image: %w", e)
	}
	e = addEndpointArrow(decorated, view, scene.Endpoints.Source, false,
		sourceColor, border)
	if e != nil {
		return nil, fmt.Errorf("Error adding start arrow: %w", e)
	}
	e = addEndpointArrow(decorated, view, scene.Endpoints.Destination, true,
		destColor, border)
	if e != nil {
		return nil, fmt.Errorf("Error adding end arrow: %w", e)
	}
	return image_utils.ToRGBA(decorated), nil
}
