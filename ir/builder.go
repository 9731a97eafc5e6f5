// ==============================================================================================
// FILE: ir/builder.go
// ==============================================================================================
// PACKAGE: ir
// PURPOSE: Lowers a semantic.AnalyzedProgram into an ir.Module (spec.md §4.5). Grounded on
//          original_source/src/ir_gen.rs for the lowering contract (block shapes, struct
//          packing, stack string slots) and on other_examples/.../sicpu__codegen.go's
//          CodeGen struct (label counters, a loopStack of break/continue targets) translated
//          to an SSA-shaped value/block model instead of text-assembly emission.
//
//          Variables are modeled as named SSA-value slots that get REBOUND (not phi'd) on
//          each assignment — spec.md §4.5 itself describes parameters as "immediately
//          rebound into a mutable SSA variable slot so that subsequent assignments lower
//          uniformly", which is exactly this rebinding scheme, not a full phi-node SSA
//          renaming pass (out of scope per spec.md §1's no-optimization-beyond-local-
//          constant-folding non-goal).
// ==============================================================================================

package ir

import (
	"chif/ast"
	"chif/semantic"

	"github.com/google/uuid"
)

type loopLabels struct {
	breakBlock    *BasicBlock
	continueBlock *BasicBlock
}

// builder carries the mutable state threaded through one Generate call.
type builder struct {
	ap            *semantic.AnalyzedProgram
	module        *Module
	fn            *Function
	curBlock      *BasicBlock
	nextValueID   int
	nextBlockID   int
	scopes        []map[string]Value
	loopStack     []loopLabels
	structLayouts map[string]*StructLayout
}

// Generate lowers an analyzed program into a Module. Imported modules are not re-read or
// re-parsed here: their functions are lowered from the ASTs that `semantic` already
// resolved and stored in ap.Modules.
func Generate(ap *semantic.AnalyzedProgram) (*Module, error) {
	b := &builder{
		ap:            ap,
		module:        &Module{BuildID: uuid.NewString(), Structs: make(map[string]*StructLayout), Shims: make(map[string]bool)},
		structLayouts: make(map[string]*StructLayout),
	}
	for name, si := range ap.Structs {
		layout := ComputeStructLayout(si)
		b.structLayouts[name] = layout
		b.module.Structs[name] = layout
	}

	for _, item := range ap.Program.Items {
		switch it := item.(type) {
		case *ast.Function:
			fn, err := b.lowerFunction(it.Name, it, "")
			if err != nil {
				return nil, err
			}
			b.module.Functions = append(b.module.Functions, fn)
		case *ast.StructImpl:
			for _, m := range it.Methods {
				mangled := it.StructName + "_" + m.Name
				fn, err := b.lowerFunction(mangled, m, it.StructName)
				if err != nil {
					return nil, err
				}
				b.module.Functions = append(b.module.Functions, fn)
			}
		}
	}

	for alias, rm := range ap.Modules {
		for _, item := range rm.Program.Items {
			switch it := item.(type) {
			case *ast.Function:
				fn, err := b.lowerFunction(alias+"_"+it.Name, it, "")
				if err != nil {
					return nil, err
				}
				b.module.Functions = append(b.module.Functions, fn)
			case *ast.StructImpl:
				for _, m := range it.Methods {
					mangled := alias + "_" + it.StructName + "_" + m.Name
					fn, err := b.lowerFunction(mangled, m, it.StructName)
					if err != nil {
						return nil, err
					}
					b.module.Functions = append(b.module.Functions, fn)
				}
			}
		}
	}

	return b.module, nil
}

func (b *builder) newValue(t semantic.Type) Value {
	b.nextValueID++
	return Value{ID: b.nextValueID, Type: t}
}

func (b *builder) newBlock(name string) *BasicBlock {
	blk := &BasicBlock{ID: b.nextBlockID, Name: name}
	b.nextBlockID++
	b.fn.Blocks = append(b.fn.Blocks, blk)
	return blk
}

func (b *builder) setBlock(blk *BasicBlock) { b.curBlock = blk }

func (b *builder) emit(op Op, t semantic.Type, args []Value, imm interface{}) Value {
	if b.curBlock.Terminated {
		return Value{}
	}
	dest := Value{}
	if t != nil {
		dest = b.newValue(t)
	}
	b.curBlock.Instrs = append(b.curBlock.Instrs, &Instr{Op: op, Dest: dest, Args: args, Imm: imm})
	return dest
}

func (b *builder) terminate(op Op, args []Value, imm interface{}) {
	if b.curBlock.Terminated {
		return
	}
	b.curBlock.Instrs = append(b.curBlock.Instrs, &Instr{Op: op, Args: args, Imm: imm})
	b.curBlock.Terminated = true
}

func (b *builder) br(target *BasicBlock) { b.terminate(OpBr, nil, target.ID) }

func (b *builder) pushScope() { b.scopes = append(b.scopes, make(map[string]Value)) }
func (b *builder) popScope()  { b.scopes = b.scopes[:len(b.scopes)-1] }

func (b *builder) declare(name string, v Value) {
	b.scopes[len(b.scopes)-1][name] = v
}

// rebind finds the innermost scope already binding name and overwrites it — the
// "rebound mutable SSA variable slot" spec.md §4.5 describes.
func (b *builder) rebind(name string, v Value) {
	for i := len(b.scopes) - 1; i >= 0; i-- {
		if _, ok := b.scopes[i][name]; ok {
			b.scopes[i][name] = v
			return
		}
	}
	b.scopes[0][name] = v
}

func (b *builder) lookup(name string) (Value, bool) {
	for i := len(b.scopes) - 1; i >= 0; i-- {
		if v, ok := b.scopes[i][name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// lowerFunction lowers one ast.Function (free function or method) under name.
// structName is the enclosing struct for a method, or "" for a free function.
func (b *builder) lowerFunction(name string, decl *ast.Function, structName string) (*Function, error) {
	var retType semantic.Type
	if decl.ReturnType != nil {
		rt, err := semantic.ResolveTypeExpr(decl.ReturnType)
		if err != nil {
			return nil, newError(Generation, "%s: %s", name, err)
		}
		retType = rt
	}

	fn := &Function{Name: name, ReturnType: retType, IsMain: decl.IsMain}
	b.fn = fn
	b.scopes = nil
	b.loopStack = nil
	b.pushScope()

	entry := b.newBlock("entry")
	b.setBlock(entry)

	for _, p := range decl.Params {
		if p.IsSelf {
			selfType := semantic.StructType{Name: structName}
			fn.Params = append(fn.Params, Param{Name: "self", Type: selfType, IsReference: true})
			b.declare("self", b.newValue(selfType))
			continue
		}
		t, err := semantic.ResolveTypeExpr(p.Type)
		if err != nil {
			return nil, newError(Generation, "%s: %s", name, err)
		}
		fn.Params = append(fn.Params, Param{Name: p.Name, Type: t, IsReference: p.IsReference})
		b.declare(p.Name, b.newValue(t))
	}

	if err := b.lowerBlock(decl.Body); err != nil {
		return nil, err
	}

	if !b.curBlock.Terminated {
		if decl.IsMain {
			zero := b.emit(OpConstInt, semantic.IntType{}, nil, int64(0))
			b.terminate(OpRet, []Value{zero}, nil)
		} else {
			b.terminate(OpRet, nil, nil)
		}
	}

	b.popScope()
	return fn, nil
}

func (b *builder) lowerBlock(block *ast.BlockStatement) error {
	for _, stmt := range block.Statements {
		if b.curBlock.Terminated {
			break
		}
		if err := b.lowerStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) lowerStmt(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.VarDeclStatement:
		v, err := b.lowerExpr(s.Value)
		if err != nil {
			return err
		}
		b.declare(s.Name, v)
		return nil

	case *ast.AssignmentStatement:
		return b.lowerAssignment(s)

	case *ast.ExpressionStatement:
		if s.Expression == nil {
			return nil
		}
		_, err := b.lowerExpr(s.Expression)
		return err

	case *ast.IfStatement:
		return b.lowerIf(s)
	case *ast.ForStatement:
		return b.lowerFor(s)
	case *ast.WhileStatement:
		return b.lowerWhile(s)
	case *ast.SwitchStatement:
		return b.lowerSwitch(s)

	case *ast.ReturnStatement:
		if s.Value == nil {
			b.terminate(OpRet, nil, nil)
			return nil
		}
		v, err := b.lowerExpr(s.Value)
		if err != nil {
			return err
		}
		b.terminate(OpRet, []Value{v}, nil)
		return nil

	case *ast.BreakStatement:
		if len(b.loopStack) == 0 {
			return newError(UnsupportedFeature, "break outside a loop")
		}
		b.br(b.loopStack[len(b.loopStack)-1].breakBlock)
		return nil

	case *ast.ContinueStatement:
		if len(b.loopStack) == 0 {
			return newError(UnsupportedFeature, "continue outside a loop")
		}
		b.br(b.loopStack[len(b.loopStack)-1].continueBlock)
		return nil

	case *ast.BlockStatement:
		b.pushScope()
		defer b.popScope()
		return b.lowerBlock(s)

	default:
		return newError(UnsupportedFeature, "unsupported statement type %T", stmt)
	}
}

func (b *builder) lowerAssignment(s *ast.AssignmentStatement) error {
	val, err := b.lowerExpr(s.Value)
	if err != nil {
		return err
	}
	switch target := s.Target.(type) {
	case *ast.Identifier:
		b.rebind(target.Value, val)
		return nil

	case *ast.IndexExpression:
		addr, elemType, err := b.lowerIndexAddr(target)
		if err != nil {
			return err
		}
		b.emit(OpStore, elemType, []Value{addr, val}, nil)
		return nil

	case *ast.FieldAccessExpression:
		addr, fieldType, err := b.lowerFieldAddr(target)
		if err != nil {
			return err
		}
		b.emit(OpStore, fieldType, []Value{addr, val}, nil)
		return nil

	case *ast.DereferenceExpression:
		ptr, err := b.lowerExpr(target.Value)
		if err != nil {
			return err
		}
		pointeeType, _ := b.ap.ResolvedType(target)
		b.emit(OpStore, pointeeType, []Value{ptr, val}, nil)
		return nil

	default:
		return newError(UnsupportedFeature, "unsupported assignment target %T", s.Target)
	}
}

func (b *builder) lowerIf(s *ast.IfStatement) error {
	cond, err := b.lowerExpr(s.Condition)
	if err != nil {
		return err
	}
	thenBlk := b.newBlock("if.then")
	mergeBlk := b.newBlock("if.merge")
	elseBlk := mergeBlk
	if s.Alternative != nil {
		elseBlk = b.newBlock("if.else")
	}
	b.terminate(OpCondBr, []Value{cond}, &condBr{Then: thenBlk.ID, Else: elseBlk.ID})

	b.setBlock(thenBlk)
	b.pushScope()
	if err := b.lowerBlock(s.Consequence); err != nil {
		return err
	}
	b.popScope()
	if !b.curBlock.Terminated {
		b.br(mergeBlk)
	}

	if s.Alternative != nil {
		b.setBlock(elseBlk)
		b.pushScope()
		if err := b.lowerBlock(s.Alternative); err != nil {
			return err
		}
		b.popScope()
		if !b.curBlock.Terminated {
			b.br(mergeBlk)
		}
	}

	b.setBlock(mergeBlk)
	return nil
}

func (b *builder) lowerFor(s *ast.ForStatement) error {
	b.pushScope()
	defer b.popScope()

	initVal, err := b.lowerExpr(s.Init.Value)
	if err != nil {
		return err
	}
	b.declare(s.Init.Name, initVal)

	header := b.newBlock("for.header")
	body := b.newBlock("for.body")
	update := b.newBlock("for.update")
	exit := b.newBlock("for.exit")

	b.br(header)
	b.setBlock(header)
	cond, err := b.lowerExpr(s.Condition)
	if err != nil {
		return err
	}
	b.terminate(OpCondBr, []Value{cond}, &condBr{Then: body.ID, Else: exit.ID})

	b.loopStack = append(b.loopStack, loopLabels{breakBlock: exit, continueBlock: update})
	b.setBlock(body)
	b.pushScope()
	if err := b.lowerBlock(s.Body); err != nil {
		return err
	}
	b.popScope()
	if !b.curBlock.Terminated {
		b.br(update)
	}
	b.loopStack = b.loopStack[:len(b.loopStack)-1]

	b.setBlock(update)
	if s.Update != nil {
		if err := b.lowerStmt(s.Update); err != nil {
			return err
		}
	}
	if !b.curBlock.Terminated {
		b.br(header)
	}

	b.setBlock(exit)
	return nil
}

func (b *builder) lowerWhile(s *ast.WhileStatement) error {
	header := b.newBlock("while.header")
	body := b.newBlock("while.body")
	exit := b.newBlock("while.exit")

	b.br(header)
	b.setBlock(header)
	cond, err := b.lowerExpr(s.Condition)
	if err != nil {
		return err
	}
	b.terminate(OpCondBr, []Value{cond}, &condBr{Then: body.ID, Else: exit.ID})

	b.loopStack = append(b.loopStack, loopLabels{breakBlock: exit, continueBlock: header})
	b.setBlock(body)
	b.pushScope()
	if err := b.lowerBlock(s.Body); err != nil {
		return err
	}
	b.popScope()
	if !b.curBlock.Terminated {
		b.br(header)
	}
	b.loopStack = b.loopStack[:len(b.loopStack)-1]

	b.setBlock(exit)
	return nil
}

func (b *builder) lowerSwitch(s *ast.SwitchStatement) error {
	scrut, err := b.lowerExpr(s.Scrutinee)
	if err != nil {
		return err
	}
	mergeBlk := b.newBlock("switch.merge")

	for _, c := range s.Cases {
		caseVal, err := b.lowerExpr(c.Value)
		if err != nil {
			return err
		}
		eq := b.emit(OpBinOp, semantic.BoolType{}, []Value{scrut, caseVal}, "==")
		bodyBlk := b.newBlock("switch.case")
		nextBlk := b.newBlock("switch.next")
		b.terminate(OpCondBr, []Value{eq}, &condBr{Then: bodyBlk.ID, Else: nextBlk.ID})

		b.setBlock(bodyBlk)
		b.pushScope()
		if err := b.lowerBlock(c.Body); err != nil {
			return err
		}
		b.popScope()
		if !b.curBlock.Terminated {
			b.br(mergeBlk)
		}

		b.setBlock(nextBlk)
	}

	if s.Default != nil {
		b.pushScope()
		if err := b.lowerBlock(s.Default); err != nil {
			return err
		}
		b.popScope()
	}
	if !b.curBlock.Terminated {
		b.br(mergeBlk)
	}

	b.setBlock(mergeBlk)
	return nil
}

// lowerIndexAddr computes the address of container[index] and returns it with the
// element's static type.
func (b *builder) lowerIndexAddr(e *ast.IndexExpression) (Value, semantic.Type, error) {
	container, err := b.lowerExpr(e.Left)
	if err != nil {
		return Value{}, nil, err
	}
	idx, err := b.lowerExpr(e.Index)
	if err != nil {
		return Value{}, nil, err
	}
	elemType, ok := b.ap.ResolvedType(e)
	if !ok {
		elemType = semantic.IntType{}
	}
	size, _ := SizeOf(elemType)
	addr := b.emit(OpIndexGEP, semantic.PointerType{Target: elemType}, []Value{container, idx}, size)
	return addr, elemType, nil
}

// lowerFieldAddr computes the address of object.field and returns it with the field's
// static type, using the struct layout computed for the receiver's resolved type.
func (b *builder) lowerFieldAddr(e *ast.FieldAccessExpression) (Value, semantic.Type, error) {
	objVal, err := b.lowerExpr(e.Object)
	if err != nil {
		return Value{}, nil, err
	}
	objType, ok := b.ap.ResolvedType(e.Object)
	if !ok {
		return Value{}, nil, newError(Generation, "missing resolved type for field access receiver")
	}
	st, ok := objType.(semantic.StructType)
	if !ok {
		return Value{}, nil, newError(Generation, "field access on non-struct type %s", objType)
	}
	layout, ok := b.structLayouts[st.Name]
	if !ok {
		return Value{}, nil, newError(Generation, "no layout computed for struct %q", st.Name)
	}
	field, ok := layout.Field(e.Field)
	if !ok {
		return Value{}, nil, newError(Generation, "%s has no field %q", st.Name, e.Field)
	}
	addr := b.emit(OpFieldGEP, semantic.PointerType{Target: field.Type}, []Value{objVal}, &fieldGEP{Offset: field.Offset, Size: field.Size})
	return addr, field.Type, nil
}

// lowerExpr lowers expr into a Value, constant-folding pure-literal arithmetic and
// comparisons before emission (spec.md §4.5), using the same promotion rules as
// `semantic`/`interp`.
func (b *builder) lowerExpr(expr ast.Expression) (Value, error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return b.emit(OpConstInt, semantic.IntType{}, nil, e.Value), nil
	case *ast.FloatLiteral:
		return b.emit(OpConstFloat, semantic.FloatType{}, nil, e.Value), nil
	case *ast.BooleanLiteral:
		return b.emit(OpConstBool, semantic.BoolType{}, nil, e.Value), nil
	case *ast.NilLiteral:
		return b.emit(OpConstNil, semantic.NilType{}, nil, nil), nil
	case *ast.StringLiteral:
		b.module.Strings = append(b.module.Strings, e.Value)
		return b.emit(OpConstStr, semantic.StrType{}, nil, e.Value), nil

	case *ast.Identifier:
		if v, ok := b.lookup(e.Value); ok {
			return v, nil
		}
		return Value{}, newError(Generation, "undefined symbol %q", e.Value)

	case *ast.PrefixExpression:
		return b.lowerPrefix(e)
	case *ast.InfixExpression:
		return b.lowerInfix(e)
	case *ast.AddressOfExpression:
		return b.lowerAddressOf(e)
	case *ast.DereferenceExpression:
		return b.lowerDereference(e)
	case *ast.CallExpression:
		return b.lowerCall(e)
	case *ast.MethodCallExpression:
		return b.lowerMethodCall(e)
	case *ast.IndexExpression:
		addr, elemType, err := b.lowerIndexAddr(e)
		if err != nil {
			return Value{}, err
		}
		return b.emit(OpLoad, elemType, []Value{addr}, nil), nil
	case *ast.FieldAccessExpression:
		addr, fieldType, err := b.lowerFieldAddr(e)
		if err != nil {
			return Value{}, err
		}
		return b.emit(OpLoad, fieldType, []Value{addr}, nil), nil
	case *ast.ArrayLiteral:
		return b.lowerArrayLiteral(e)
	case *ast.MapLiteral:
		return b.lowerMapLiteral(e)
	case *ast.StructLiteral:
		return b.lowerStructLiteral(e)

	default:
		return Value{}, newError(UnsupportedFeature, "unsupported expression type %T", expr)
	}
}

func (b *builder) lowerPrefix(e *ast.PrefixExpression) (Value, error) {
	if lit, ok := foldPrefix(e); ok {
		return b.emitLiteral(lit)
	}
	right, err := b.lowerExpr(e.Right)
	if err != nil {
		return Value{}, err
	}
	resultType, _ := b.ap.ResolvedType(e)
	if resultType == nil {
		resultType = right.Type
	}
	return b.emit(OpUnOp, resultType, []Value{right}, e.Operator), nil
}

func (b *builder) lowerInfix(e *ast.InfixExpression) (Value, error) {
	if lit, ok := foldInfix(e); ok {
		return b.emitLiteral(lit)
	}
	left, err := b.lowerExpr(e.Left)
	if err != nil {
		return Value{}, err
	}
	right, err := b.lowerExpr(e.Right)
	if err != nil {
		return Value{}, err
	}
	resultType, ok := b.ap.ResolvedType(e)
	if !ok {
		resultType = semantic.BoolType{}
	}
	return b.emit(OpBinOp, resultType, []Value{left, right}, e.Operator), nil
}

func (b *builder) lowerAddressOf(e *ast.AddressOfExpression) (Value, error) {
	if id, ok := e.Value.(*ast.Identifier); ok {
		v, ok := b.lookup(id.Value)
		if !ok {
			return Value{}, newError(Generation, "undefined symbol %q", id.Value)
		}
		return b.emit(OpAddrOf, semantic.PointerType{Target: v.Type}, []Value{v}, id.Value), nil
	}
	v, err := b.lowerExpr(e.Value)
	if err != nil {
		return Value{}, err
	}
	return b.emit(OpAddrOf, semantic.PointerType{Target: v.Type}, []Value{v}, nil), nil
}

func (b *builder) lowerDereference(e *ast.DereferenceExpression) (Value, error) {
	ptr, err := b.lowerExpr(e.Value)
	if err != nil {
		return Value{}, err
	}
	pointeeType, ok := b.ap.ResolvedType(e)
	if !ok {
		pointeeType = semantic.IntType{}
	}
	return b.emit(OpLoad, pointeeType, []Value{ptr}, nil), nil
}

// builtinConversions names the bare-call conversions that lower to an inline convert
// instruction rather than a runtime shim (the shim table of spec.md §6 has no int<->float
// conversion entries).
var builtinConversions = map[string]bool{"int": true, "float": true, "str": true}

// builtinRandShims maps chif's random free-functions to their runtime-shim names.
var builtinRandShims = map[string]string{"randi": "rand_int", "randf": "rand_float", "rands": "rand_char_range"}

func (b *builder) lowerCall(e *ast.CallExpression) (Value, error) {
	id, ok := e.Function.(*ast.Identifier)
	if !ok {
		return Value{}, newError(UnsupportedFeature, "call target must be a bare function name")
	}

	args := make([]Value, len(e.Arguments))
	for i, a := range e.Arguments {
		v, err := b.lowerExpr(a)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}
	retType, _ := b.ap.ResolvedType(e)
	if retType == nil {
		retType = semantic.NilType{}
	}

	if builtinConversions[id.Value] {
		return b.emit(OpConvert, retType, args, id.Value), nil
	}
	if shim, ok := builtinRandShims[id.Value]; ok {
		b.module.Shims[shim] = true
		return b.emit(OpCallShim, retType, args, shim), nil
	}
	return b.emit(OpCall, retType, args, id.Value), nil
}

// conPrintShim maps a con.out argument's static type to the matching print_* shim
// (spec.md §4.5 "type-based dispatch").
func conPrintShim(t semantic.Type) string {
	switch t.(type) {
	case semantic.IntType:
		return "print_int"
	case semantic.FloatType:
		return "print_float"
	case semantic.BoolType:
		return "print_bool"
	default:
		return "print_string"
	}
}

func (b *builder) lowerMethodCall(e *ast.MethodCallExpression) (Value, error) {
	if id, ok := e.Receiver.(*ast.Identifier); ok {
		switch id.Value {
		case "con":
			return b.lowerConsoleCall(e)
		case "http":
			return b.lowerHTTPCall(e)
		}
		if _, isModule := b.ap.Modules[id.Value]; isModule {
			return b.lowerImportedFunctionCall(id.Value, e)
		}
	}

	recvType, ok := b.ap.ResolvedType(e.Receiver)
	if !ok {
		return Value{}, newError(Generation, "missing resolved type for method-call receiver")
	}
	if lt, isList := recvType.(semantic.ListType); isList {
		return b.lowerListIntrinsic(e, lt)
	}

	st, ok := recvType.(semantic.StructType)
	if !ok {
		return Value{}, newError(UnsupportedFeature, "cannot lower method call on a %s", recvType)
	}
	recv, err := b.lowerExpr(e.Receiver)
	if err != nil {
		return Value{}, err
	}
	args := []Value{recv}
	for _, a := range e.Arguments {
		v, err := b.lowerExpr(a)
		if err != nil {
			return Value{}, err
		}
		args = append(args, v)
	}
	retType, _ := b.ap.ResolvedType(e)
	if retType == nil {
		retType = semantic.NilType{}
	}
	mangled := st.Name + "_" + e.Method
	return b.emit(OpCall, retType, args, mangled), nil
}

func (b *builder) lowerConsoleCall(e *ast.MethodCallExpression) (Value, error) {
	switch e.Method {
	case "out":
		if len(e.Arguments) != 1 {
			return Value{}, newError(Generation, "con.out expects 1 argument")
		}
		arg, err := b.lowerExpr(e.Arguments[0])
		if err != nil {
			return Value{}, err
		}
		argType, ok := b.ap.ResolvedType(e.Arguments[0])
		if !ok {
			argType = arg.Type
		}
		shim := conPrintShim(argType)
		b.module.Shims[shim] = true
		return b.emit(OpCallShim, nil, []Value{arg}, shim), nil

	case "in":
		b.module.Shims["input_string"] = true
		return b.emit(OpCallShim, semantic.StrType{}, nil, "input_string"), nil

	default:
		return Value{}, newError(UnsupportedFeature, "unknown con member %q", e.Method)
	}
}

func (b *builder) lowerHTTPCall(e *ast.MethodCallExpression) (Value, error) {
	shimByMethod := map[string]string{"get": "http_get", "post": "http_post", "put": "http_put", "delete": "http_delete"}
	shim, ok := shimByMethod[e.Method]
	if !ok {
		return Value{}, newError(UnsupportedFeature, "unknown http member %q", e.Method)
	}
	args := make([]Value, len(e.Arguments))
	for i, a := range e.Arguments {
		v, err := b.lowerExpr(a)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}
	b.module.Shims[shim] = true
	return b.emit(OpCallShim, semantic.StrType{}, args, shim), nil
}

func (b *builder) lowerImportedFunctionCall(alias string, e *ast.MethodCallExpression) (Value, error) {
	args := make([]Value, len(e.Arguments))
	for i, a := range e.Arguments {
		v, err := b.lowerExpr(a)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}
	retType, _ := b.ap.ResolvedType(e)
	if retType == nil {
		retType = semantic.NilType{}
	}
	mangled := alias + "_" + e.Method
	return b.emit(OpCall, retType, args, mangled), nil
}

func (b *builder) lowerListIntrinsic(e *ast.MethodCallExpression, lt semantic.ListType) (Value, error) {
	id, ok := e.Receiver.(*ast.Identifier)
	if !ok {
		return Value{}, newError(UnsupportedFeature, "list mutation requires a named-variable receiver")
	}
	recv, ok := b.lookup(id.Value)
	if !ok {
		return Value{}, newError(Generation, "undefined symbol %q", id.Value)
	}

	args := []Value{recv}
	for _, a := range e.Arguments {
		v, err := b.lowerExpr(a)
		if err != nil {
			return Value{}, err
		}
		args = append(args, v)
	}

	switch e.Method {
	case "add":
		b.emit(OpListAdd, nil, args, nil)
		return Value{}, nil
	case "addAt":
		b.emit(OpListAddAt, nil, args, nil)
		return Value{}, nil
	case "del":
		b.emit(OpListDel, nil, args, nil)
		return Value{}, nil
	case "len":
		return b.emit(OpListLen, semantic.IntType{}, []Value{recv}, nil), nil
	default:
		return Value{}, newError(UnsupportedFeature, "unknown list method %q", e.Method)
	}
}

func (b *builder) lowerArrayLiteral(e *ast.ArrayLiteral) (Value, error) {
	elemType, ok := b.ap.ResolvedType(e)
	var elem semantic.Type = semantic.IntType{}
	if arrT, isArr := elemType.(semantic.ArrayType); ok && isArr {
		elem = arrT.Element
	}
	elemSize, _ := SizeOf(elem)
	slot := b.emit(OpAllocArr, semantic.PointerType{Target: elem}, nil, elemSize*len(e.Elements))
	for idx, el := range e.Elements {
		v, err := b.lowerExpr(el)
		if err != nil {
			return Value{}, err
		}
		idxVal := b.emit(OpConstInt, semantic.IntType{}, nil, int64(idx))
		addr := b.emit(OpIndexGEP, semantic.PointerType{Target: elem}, []Value{slot, idxVal}, elemSize)
		b.emit(OpStore, elem, []Value{addr, v}, nil)
	}
	return slot, nil
}

func (b *builder) lowerMapLiteral(e *ast.MapLiteral) (Value, error) {
	m := b.emit(OpMapNew, semantic.MapType{Key: semantic.StrType{}, Value: semantic.NilType{}}, nil, nil)
	for _, entry := range e.Entries {
		k, err := b.lowerExpr(entry.Key)
		if err != nil {
			return Value{}, err
		}
		v, err := b.lowerExpr(entry.Value)
		if err != nil {
			return Value{}, err
		}
		b.emit(OpMapSet, nil, []Value{m, k, v}, nil)
	}
	return m, nil
}

func (b *builder) lowerStructLiteral(e *ast.StructLiteral) (Value, error) {
	layout, ok := b.structLayouts[e.Name]
	if !ok {
		return Value{}, newError(Generation, "no layout computed for struct %q", e.Name)
	}
	slot := b.emit(OpAllocStr, semantic.PointerType{Target: semantic.StructType{Name: e.Name}}, nil, e.Name)
	for _, init := range e.Fields {
		field, ok := layout.Field(init.Name)
		if !ok {
			return Value{}, newError(Generation, "%s has no field %q", e.Name, init.Name)
		}
		v, err := b.lowerExpr(init.Value)
		if err != nil {
			return Value{}, err
		}
		addr := b.emit(OpFieldGEP, semantic.PointerType{Target: field.Type}, []Value{slot}, &fieldGEP{Offset: field.Offset, Size: field.Size})
		b.emit(OpStore, field.Type, []Value{addr, v}, nil)
	}
	return slot, nil
}

// emitLiteral materializes a Go literal value folded at the AST level into a single
// constant instruction.
func (b *builder) emitLiteral(v interface{}) (Value, error) {
	switch val := v.(type) {
	case int64:
		return b.emit(OpConstInt, semantic.IntType{}, nil, val), nil
	case float64:
		return b.emit(OpConstFloat, semantic.FloatType{}, nil, val), nil
	case bool:
		return b.emit(OpConstBool, semantic.BoolType{}, nil, val), nil
	case string:
		b.module.Strings = append(b.module.Strings, val)
		return b.emit(OpConstStr, semantic.StrType{}, nil, val), nil
	default:
		return Value{}, newError(Generation, "unsupported folded literal %v (%T)", v, v)
	}
}
