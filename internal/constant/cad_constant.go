package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleError     = "error"

	// NoticeUpdated / NoticeAutoCorrected distinguish a plain script update
	// from one where the executor changed the submitted text before running it.
	NoticeUpdated       = "updated"
	NoticeAutoCorrected = "auto-corrected"

	// EditorPlaceholder is the sentinel the UI puts in an empty script editor.
	// Submitting it verbatim is treated the same as submitting nothing.
	EditorPlaceholder = "# Generated CadQuery code will appear here..."

	CadQuerySystemPrompt = `You are an expert CadQuery programmer. Your task is to convert natural language descriptions of 3D objects into valid CadQuery Python code.

Rules:
1. Always import cadquery as cq at the start
2. The final result MUST be assigned to a variable called 'result'
3. Use proper CadQuery methods and syntax
4. The code should be complete and executable
5. Only output the Python code, no explanations or markdown
6. Use millimeters as the default unit unless specified otherwise
7. Common operations:
   - cq.Workplane("XY").box(length, width, height) - creates a box
   - .circle(radius).extrude(height) - creates a cylinder
   - .hole(diameter) - creates a through hole
   - .cboreHole(diameter, cboreDiameter, cboreDepth) - counterbored hole
   - .fillet(radius) - fillets edges
   - .chamfer(distance) - chamfers edges
   - .cut(other_shape) - boolean subtraction
   - .union(other_shape) - boolean union
   - .intersect(other_shape) - boolean intersection

Example for "a cube with 10mm sides and a 5mm hole in the center":
import cadquery as cq
result = cq.Workplane("XY").box(10, 10, 10).faces(">Z").workplane().hole(5)

Example for "a cylinder with radius 20mm and height 50mm":
import cadquery as cq
result = cq.Workplane("XY").circle(20).extrude(50)

Example for "a rounded box 30x20x10mm with 2mm fillets":
import cadquery as cq
result = cq.Workplane("XY").box(30, 20, 10).edges().fillet(2)`

	// CadQueryRefinePromptPrefix frames an iterative turn: the model is asked
	// to modify the previous script rather than start from scratch.
	CadQueryRefinePromptPrefix = `The user is iterating on an existing model. Here is the current CadQuery code:

%s

Modify it according to this request, keeping everything not mentioned unchanged: %s`

	CadQueryGeneratePromptPrefix = `Generate CadQuery code for: %s`
)
