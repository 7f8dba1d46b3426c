package pegen_test

import (
	"bytes"
	"fmt"

	"github.com/ava12/pegen/compiler"
	"github.com/ava12/pegen/langdef"
)

func Example() {
	doc := `
initializer: |
  import "strconv"

  func atoi(s string) int {
      n, _ := strconv.Atoi(s)
      return n
  }

  func total(nums []int) (res int) {
      for _, n := range nums {
          res += n
      }
      return
  }

rules:
  - name: sum
    type: int
    exported: true
    expr:
      action:
        exprs:
          - name: nums
            expr: {repeat: {expr: num, min: 1, sep: {literal: "+"}}}
        code: total(nums)

  - name: num
    type: int
    expr:
      action:
        exprs: [{repeat: {expr: {class: "0-9"}, min: 1}}]
        code: atoi(matchStr)
`
	g, e := langdef.ParseString("sum.yaml", doc)
	if e != nil {
		fmt.Println(e)
		return
	}
	fmt.Print(compiler.Describe(g))

	src, e := compiler.Compile(g, compiler.PackageName("sum"))
	if e != nil {
		fmt.Println(e)
		return
	}
	fmt.Println(bytes.Contains(src, []byte("\nfunc Sum(input string) (int, error) {\n")))
	fmt.Println(bytes.Contains(src, []byte("\nfunc parse_num(input string, pos int) (int, int, bool) {\n")))

	// Output:
	// * sum int = nums:num+ % "+" {total(nums)}
	//   num int = [0-9]+ {atoi(matchStr)}
	// true
	// true
}
