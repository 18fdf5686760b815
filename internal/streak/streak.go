// Package streak は食事履歴からダイエット遵守の連続記録を算出する。
package streak

import "github.com/hitoshi/dailydiet/internal/model"

// LongestDietStreak は is_on_the_diet=true の食事が連続した最長の件数を返す。
//
// 入力は与えられた順序のまま走査し、並べ替えは行わない。呼び出し側が時系列順で渡すこと。
// 末尾まで続いた遵守区間も候補として確定させる。
// 例: [T,T,F,T,T,T] は 3、空・全件非遵守は 0。
func LongestDietStreak(meals []model.Meal) int {
	best, current := 0, 0
	for _, meal := range meals {
		if !meal.IsOnTheDiet {
			best = max(best, current)
			current = 0
			continue
		}
		current++
	}
	return max(best, current)
}
