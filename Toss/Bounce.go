package Toss

// 弹道求解的数值参数
// 粗搜索步长和收敛精度都是空间量(米)：粗推进按初速度换算时间步长，
// 二分收敛判据乘的是区间端点处的瞬时速度，落体加速后位置精度不退化
const (
	Gravity        = 10.0  // 重力加速度 m/s²
	CoarseStep     = 0.5   // 粗搜索空间步长 m
	Precision      = 0.001 // 二分收敛的空间精度 m
	MaxCoarseSteps = 100000
)

// Bounce 从pos以vel做抛体运动，求轨迹与地形的首个交点
// 返回交点处的位置和速度（反弹前的速度）
func Bounce(ls *Landscape, pos, vel Vec3) (Vec3, Vec3, error) {
	t, err := bounceTime(ls, pos, vel)
	if err != nil {
		return Vec3{}, Vec3{}, err
	}
	return posAt(pos, vel, t), velAt(vel, t), nil
}

// BouncePath 与Bounce相同，另外返回整段飞行的采样点
// 采样包含起点和落点，用于轨迹展示和推送
func BouncePath(ls *Landscape, pos, vel Vec3, samples int) ([]Vec3, Vec3, Vec3, error) {
	t, err := bounceTime(ls, pos, vel)
	if err != nil {
		return nil, Vec3{}, Vec3{}, err
	}
	if samples < 2 {
		samples = 2
	}
	path := make([]Vec3, samples)
	for i := 0; i < samples; i++ {
		ti := t * float64(i) / float64(samples-1)
		path[i] = posAt(pos, vel, ti)
	}
	return path, posAt(pos, vel, t), velAt(vel, t), nil
}

// 匀加速运动方程 pos(t) = pos + vel·t + ½·a·t²，a = (0,0,-g)
func posAt(pos, vel Vec3, t float64) Vec3 {
	return Vec3{
		X: pos.X + vel.X*t,
		Y: pos.Y + vel.Y*t,
		Z: pos.Z + vel.Z*t - 0.5*Gravity*t*t,
	}
}

func velAt(vel Vec3, t float64) Vec3 {
	return Vec3{vel.X, vel.Y, vel.Z - Gravity*t}
}

// bounceTime 两阶段求根：先以固定空间步长粗推进，
// 直到轨迹高度降到地形高度及以下，得到包含交点的区间，
// 再对区间二分到1毫米精度
func bounceTime(ls *Landscape, pos, vel Vec3) (float64, error) {
	speed := vel.Norm()
	if speed == 0 {
		return 0, ErrZeroVelocity
	}
	dt := CoarseStep / speed

	// 阶段一：粗推进，确定区间[tLeft, tRight]
	tLeft := 0.0
	tRight := dt
	p := posAt(pos, vel, tRight)
	zLand, _, err := ls.HeightAndNormal(p.X, p.Y)
	if err != nil {
		return 0, err
	}
	steps := 0
	for p.Z > zLand {
		steps++
		if steps > MaxCoarseSteps {
			return 0, ErrNoIntersection
		}
		tLeft = tRight
		tRight += dt
		p = posAt(pos, vel, tRight)
		zLand, _, err = ls.HeightAndNormal(p.X, p.Y)
		if err != nil {
			return 0, err
		}
	}

	// 阶段二：二分细化
	// 中点在轨迹高度低于地形时说明越过了交点，收右端；
	// 高于地形时收左端；严格相等直接结束
	// 落点速度可能远大于初速度，时间容差要用交点附近的
	// 瞬时速度换算，否则区间宽度×落点速度会超出位置精度
	for (tRight-tLeft)*velAt(vel, tRight).Norm() > Precision {
		tMid := tLeft + 0.5*(tRight-tLeft)
		p = posAt(pos, vel, tMid)
		zLand, _, err = ls.HeightAndNormal(p.X, p.Y)
		if err != nil {
			return 0, err
		}
		if p.Z < zLand {
			tRight = tMid
		} else if p.Z > zLand {
			tLeft = tMid
		} else {
			return tMid, nil
		}
	}

	// 未精确命中时取左端，它是最后一个仍在地形之上的时刻，
	// 避免返回地表以下的位置
	return tLeft, nil
}
