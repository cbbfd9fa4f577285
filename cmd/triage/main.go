// Command triage 读取问卷文件，通过中继请求 SNNOOP10 分诊并输出结果。
package main

func main() {
	Execute()
}
