// Package fuzztests houses Go fuzz harnesses for the template pipeline
// (source -> scanner -> parser). They guard against panics and hangs on
// arbitrary input and check structural properties of the results.
//
// Назначение: загружать байты в FileSet и прогонять их через сканер и
// парсер, сверяя результат с простой эталонной моделью.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
